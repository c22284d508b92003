package models

// Progress is the polling view of a lecture, computed from the persisted record
type Progress struct {
	IsComplete    bool   `json:"isComplete"`
	Stage         Stage  `json:"stage"`
	Error         string `json:"error,omitempty"`
	HasTranscript bool   `json:"hasTranscript"`
	HasSummary    bool   `json:"hasSummary"`
	HasQuizzes    bool   `json:"hasQuizzes"`
	HasSlides     bool   `json:"hasSlides"`
}

func ProgressOf(l *Lecture) Progress {
	return Progress{
		IsComplete:    l.ProcessingStage == StageComplete,
		Stage:         l.ProcessingStage,
		Error:         l.ProcessingError,
		HasTranscript: l.Transcript != "",
		HasSummary:    l.Summary != "",
		HasQuizzes:    len(l.Quizzes) > 0,
		HasSlides:     len(l.Slides) > 0,
	}
}
