package notes

type SaveNoteDTO struct {
	Text string `json:"text"`
	Mood string `json:"mood"`
}
