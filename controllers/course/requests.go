package controllers

// VideoProgressRequest is the body of a video progress report.
type VideoProgressRequest struct {
	VideoProgress float64 `json:"video_progress" validate:"min=0,max=1"`
	TimeSpent     *int    `json:"time_spent" validate:"omitempty,min=0"`
}

// CompleteLessonRequest is the body of a lesson completion report. Video
// progress defaults to fully watched when omitted.
type CompleteLessonRequest struct {
	TimeSpent     *int     `json:"time_spent" validate:"omitempty,min=0"`
	VideoProgress *float64 `json:"video_progress" validate:"omitempty,min=0,max=1"`
}
