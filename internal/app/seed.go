package app

// SeedResult reports what a seed import inserted.
type SeedResult struct {
	CategoryCount int `json:"categories"`
	TaskCount     int `json:"tasks"`
}
