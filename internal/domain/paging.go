package domain

// PageRef ties one physical page number to the surface rendering it.
type PageRef struct {
	Page      int    `json:"page"`
	SurfaceID string `json:"surfaceId"`
}

// LessonPaging is the ordered page map of one lesson. Page 1 is always the
// primary surface created first; pages 2..N exist only when the lesson's
// template reported multiple pages.
type LessonPaging struct {
	Lesson int       `json:"lesson"`
	Pages  []PageRef `json:"pages"`
}
