package models

import "time"

type Stage string

const (
	StageUploaded        Stage = "uploaded"
	StageDownloading     Stage = "downloading"
	StageExtractingAudio Stage = "extracting_audio"
	StageTranscribing    Stage = "transcribing"
	StageSummarizing     Stage = "summarizing"
	StageComplete        Stage = "complete"
	StageFailed          Stage = "failed"
)

// Valid reports whether s is one of the defined stages
func (s Stage) Valid() bool {
	switch s {
	case StageUploaded, StageDownloading, StageExtractingAudio, StageTranscribing,
		StageSummarizing, StageComplete, StageFailed:
		return true
	}
	return false
}

type SourceKind string

const (
	SourceFile    SourceKind = "file"
	SourceYoutube SourceKind = "youtube"
)

// Slide is one sampled frame of the lecture video.
// Image is the public reference of the frame, e.g. /frames/<lectureId>/frame_001.jpg.
type Slide struct {
	Timestamp int    `json:"timestamp"`
	Image     string `json:"image"`
}

type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Lecture is the unit of work of the processing pipeline and its derived artifacts
type Lecture struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	SourceKind      SourceKind `json:"sourceKind"`
	SourceLocation  string     `json:"sourceLocation"`
	VideoPath       string     `json:"videoPath,omitempty"`
	DurationSeconds *int       `json:"duration,omitempty"`
	Transcript      string     `json:"transcript,omitempty"`
	TranscriptHTML  string     `json:"transcriptHtml,omitempty"`
	Summary         string     `json:"summary,omitempty"`
	SummaryHTML     string     `json:"summaryHtml,omitempty"`
	Slides          []Slide    `json:"slides,omitempty"`
	Quizzes         []QuizItem `json:"quizzes,omitempty"`
	ProcessingStage Stage      `json:"processingStage"`
	ProcessingError string     `json:"processingError,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// LectureUpdate is a partial update with merge semantics: nil fields are left untouched
type LectureUpdate struct {
	Stage           *Stage
	ProcessingError *string
	VideoPath       *string
	DurationSeconds *int
	Transcript      *string
	TranscriptHTML  *string
	Summary         *string
	SummaryHTML     *string
	Slides          []Slide
	Quizzes         []QuizItem
}

// Apply merges u into l.
// Moving to any stage other than failed clears the error so that the error is set only on failed records.
func (u LectureUpdate) Apply(l *Lecture) {
	if u.Stage != nil {
		l.ProcessingStage = *u.Stage
		if *u.Stage != StageFailed {
			l.ProcessingError = ""
		}
	}
	if u.ProcessingError != nil {
		l.ProcessingError = *u.ProcessingError
	}
	if u.VideoPath != nil {
		l.VideoPath = *u.VideoPath
	}
	if u.DurationSeconds != nil {
		d := *u.DurationSeconds
		l.DurationSeconds = &d
	}
	if u.Transcript != nil {
		l.Transcript = *u.Transcript
	}
	if u.TranscriptHTML != nil {
		l.TranscriptHTML = *u.TranscriptHTML
	}
	if u.Summary != nil {
		l.Summary = *u.Summary
	}
	if u.SummaryHTML != nil {
		l.SummaryHTML = *u.SummaryHTML
	}
	if u.Slides != nil {
		l.Slides = append([]Slide(nil), u.Slides...)
	}
	if u.Quizzes != nil {
		l.Quizzes = cloneQuizzes(u.Quizzes)
	}
}

// Clone returns a deep copy so that stored records cannot be mutated by callers
func (l *Lecture) Clone() *Lecture {
	cp := *l
	if l.DurationSeconds != nil {
		d := *l.DurationSeconds
		cp.DurationSeconds = &d
	}
	if l.Slides != nil {
		cp.Slides = append([]Slide(nil), l.Slides...)
	}
	if l.Quizzes != nil {
		cp.Quizzes = cloneQuizzes(l.Quizzes)
	}
	return &cp
}

func cloneQuizzes(in []QuizItem) []QuizItem {
	out := make([]QuizItem, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// StageUpdate is a shorthand for an update that only moves the stage
func StageUpdate(s Stage) LectureUpdate {
	return LectureUpdate{Stage: &s}
}

// FailedUpdate moves the lecture to the terminal failed stage with the given message
func FailedUpdate(msg string) LectureUpdate {
	s := StageFailed
	return LectureUpdate{Stage: &s, ProcessingError: &msg}
}
