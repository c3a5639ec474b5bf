package learning

// LearningPath is an ordered route through learning objects. Content is managed elsewhere; this layer only reads it.
type LearningPath struct {
	ID          int    `json:"id" db:"id"`
	HRUID       string `json:"hruid" db:"hruid"`
	Language    string `json:"language" db:"language"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
}

type LearningObject struct {
	ID             int    `json:"id" db:"id"`
	HRUID          string `json:"hruid" db:"hruid"`
	Language       string `json:"language" db:"language"`
	Title          string `json:"title" db:"title"`
	LearningPathID int    `json:"learningPathId" db:"learning_path_id"`
}
