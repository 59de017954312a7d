package model

// Course is an entry of the static course catalog shown on the portal's home page.
type Course struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Content     string `json:"content" yaml:"content"`
}
