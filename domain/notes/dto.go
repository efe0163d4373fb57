package notes

type CreateNoteRequest struct {
	Title   *string  `json:"title,omitempty"`
	Content string   `json:"content"`
	Summary *string  `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type UpdateNoteRequest struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Summary *string   `json:"summary,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// Step outcomes for the post-commit enrichment pipeline.
const (
	StepOK      = "ok"
	StepFailed  = "failed"
	StepSkipped = "skipped"
)

type StepResult struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// EnrichmentOutcome reports what happened to each enrichment step after the
// note itself was committed. A failed step never rolls the note back.
type EnrichmentOutcome struct {
	Tags         StepResult `json:"tags"`
	Vectors      StepResult `json:"vectors"`
	AutoLink     StepResult `json:"auto_link"`
	EdgesCreated int        `json:"edges_created"`
}

type NoteResponse struct {
	Note       *Note              `json:"note"`
	Enrichment *EnrichmentOutcome `json:"enrichment,omitempty"`
}
