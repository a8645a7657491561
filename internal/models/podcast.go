package models

// PodcastSegment is one turn of dialogue in a generated podcast script.
type PodcastSegment struct {
	Speaker string `json:"speaker"` // "host" or "guest"
	Text    string `json:"text"`
}

// PodcastScript is a titled two-speaker dialogue generated from selected text.
type PodcastScript struct {
	Title    string           `json:"title"`
	Segments []PodcastSegment `json:"segments"`
}
