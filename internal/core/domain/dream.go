package domain

import "time"

type DreamStatus string

const (
	StatusUploaded         DreamStatus = "uploaded"
	StatusTranscribing     DreamStatus = "transcribing"
	StatusTranscribed      DreamStatus = "transcribed"
	StatusProcessing       DreamStatus = "processing"
	StatusProcessed        DreamStatus = "processed"
	StatusGeneratingImages DreamStatus = "generating_images"
	StatusCompleted        DreamStatus = "completed"
	StatusError            DreamStatus = "error"
)

func ValidStatus(s DreamStatus) bool {
	switch s {
	case StatusUploaded, StatusTranscribing, StatusTranscribed, StatusProcessing,
		StatusProcessed, StatusGeneratingImages, StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// Moods is the closed vocabulary accepted on the Dream record itself.
// The structuring stage may return free-text moods inside ProcessedData.
var Moods = []string{"happy", "sad", "scary", "weird", "exciting", "peaceful", "confusing", "romantic"}

func ValidMood(mood string) bool {
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}

type Dream struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	AudioFilePath string           `json:"audioFilePath,omitempty"`
	Transcription string           `json:"transcription,omitempty"`
	ProcessedData *StructuredDream `json:"processedData,omitempty"`
	ComicImages   *ComicImages     `json:"comicImages,omitempty"`
	Tags          []string         `json:"tags"`
	Mood          string           `json:"mood,omitempty"`
	UserID        string           `json:"userId,omitempty"`
	Status        DreamStatus      `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type Scene struct {
	Sequence    int    `json:"sequence"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Setting     string `json:"setting"`
	Emotion     string `json:"emotion"`
	VisualStyle string `json:"visual_style"`
	ImagePrompt string `json:"image_prompt"`
}

// StructuredDream is the output of the narrative structuring stage.
// Degraded marks the synthetic fallback substituted when the provider
// response could not be parsed; the shape stays valid either way so
// downstream stages never see a parse failure.
type StructuredDream struct {
	Title      string             `json:"title"`
	Summary    string             `json:"summary"`
	Mood       string             `json:"mood"`
	Themes     []string           `json:"themes"`
	Characters []string           `json:"characters"`
	Scenes     []Scene            `json:"scenes"`
	Degraded   bool               `json:"degraded,omitempty"`
	Metadata   *StructureMetadata `json:"metadata,omitempty"`
}

type StructureMetadata struct {
	OriginalLength int       `json:"originalLength"`
	ProcessedAt    time.Time `json:"processedAt"`
	Model          string    `json:"model"`
	SceneCount     int       `json:"sceneCount"`
}

type StructureOptions struct {
	SceneCount        int
	IncludeEmotions   bool
	IncludeCharacters bool
}

func DefaultStructureOptions() StructureOptions {
	return StructureOptions{
		SceneCount:        6,
		IncludeEmotions:   true,
		IncludeCharacters: true,
	}
}

// GeneratedImage is one scene's synthesis outcome. Exactly one of
// B64JSON or Failed carries meaning; a failed entry keeps its slot so
// the batch output always has one element per scene.
type GeneratedImage struct {
	SceneSequence    int    `json:"scene_sequence"`
	SceneDescription string `json:"scene_description,omitempty"`
	StyledPrompt     string `json:"styled_prompt,omitempty"`
	B64JSON          string `json:"b64_json,omitempty"`
	Model            string `json:"model,omitempty"`
	GenerationTimeMS int64  `json:"generation_time,omitempty"`
	Failed           bool   `json:"failed,omitempty"`
	Error            string `json:"error,omitempty"`
}

type SavedImageFile struct {
	SceneSequence int    `json:"scene_sequence"`
	Filename      string `json:"filename"`
	Size          int    `json:"size"`
}

type GenerationMetadata struct {
	Concurrent  bool             `json:"concurrent"`
	DelayMS     int              `json:"delay"`
	Style       string           `json:"style"`
	Model       string           `json:"model,omitempty"`
	TotalTimeMS int64            `json:"total_time"`
	SavedFiles  []SavedImageFile `json:"saved_files,omitempty"`
}

type ComicImages struct {
	Images             []GeneratedImage   `json:"images"`
	GenerationMetadata GenerationMetadata `json:"generation_metadata"`
}

// StripPayloads returns a copy with image payloads removed, for
// persisting on the Dream record (binaries live on disk, not in the
// database row).
func (c *ComicImages) StripPayloads() *ComicImages {
	if c == nil {
		return nil
	}
	out := &ComicImages{
		Images:             make([]GeneratedImage, len(c.Images)),
		GenerationMetadata: c.GenerationMetadata,
	}
	for i, img := range c.Images {
		img.B64JSON = ""
		out.Images[i] = img
	}
	return out
}

type Transcription struct {
	Text     string                `json:"text"`
	Metadata TranscriptionMetadata `json:"metadata"`
}

type TranscriptionMetadata struct {
	FilePath          string    `json:"filePath"`
	FileName          string    `json:"fileName"`
	FileSize          int64     `json:"fileSize"`
	FileSizeMB        string    `json:"fileSizeMB"`
	TranscriptionTime int64     `json:"transcriptionTime"`
	Timestamp         time.Time `json:"timestamp"`
	WordCount         int       `json:"wordCount"`
	Model             string    `json:"model"`
	Provider          string    `json:"provider"`
}

type TranscriptionServiceInfo struct {
	Configured       bool     `json:"configured"`
	SupportedFormats []string `json:"supportedFormats"`
	MaxFileSize      string   `json:"maxFileSize"`
	Model            string   `json:"model"`
	Provider         string   `json:"provider"`
}

// NewDream builds a freshly uploaded Dream. A zero id is assigned by
// the caller (use case) so ids stay testable.
func NewDream(id, title, audioFilePath string, tags []string, mood, userID, transcription string, now time.Time) *Dream {
	d := &Dream{
		ID:            id,
		Title:         title,
		AudioFilePath: audioFilePath,
		Transcription: transcription,
		Tags:          []string{},
		Mood:          mood,
		UserID:        userID,
		Status:        StatusUploaded,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	d.AddTags(tags, now)
	return d
}

func (d *Dream) touch(now time.Time) {
	d.UpdatedAt = now
}

func (d *Dream) UpdateStatus(status DreamStatus, now time.Time) {
	d.Status = status
	d.touch(now)
}

// SetTranscription stores the transcript and advances the state
// machine; the two always move together.
func (d *Dream) SetTranscription(text string, now time.Time) {
	d.Transcription = text
	d.Status = StatusTranscribed
	d.touch(now)
}

func (d *Dream) SetProcessedData(data *StructuredDream, now time.Time) {
	d.ProcessedData = data
	d.Status = StatusProcessed
	d.touch(now)
}

func (d *Dream) SetComicImages(images *ComicImages, now time.Time) {
	d.ComicImages = images
	d.Status = StatusCompleted
	d.touch(now)
}

// AddTags unions new tags into the set, preserving first-seen order.
func (d *Dream) AddTags(tags []string, now time.Time) {
	if len(tags) == 0 {
		return
	}
	seen := make(map[string]bool, len(d.Tags)+len(tags))
	for _, t := range d.Tags {
		seen[t] = true
	}
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		d.Tags = append(d.Tags, t)
	}
	d.touch(now)
}

func (d *Dream) SetMood(mood string, now time.Time) {
	d.Mood = mood
	d.touch(now)
}

// UpdateFields is the whitelisted partial-update payload for the PUT
// endpoint. Nil pointers mean "leave untouched"; anything outside this
// struct is ignored by design.
type UpdateFields struct {
	Title         *string
	Tags          []string
	Mood          *string
	Transcription *string
	ProcessedData *StructuredDream
	ComicImages   *ComicImages
	Status        *DreamStatus
}

// ApplyUpdate routes each whitelisted field through its mutator, so
// the legacy side effects hold: a transcription update forces
// status=transcribed, processed data forces status=processed, comic
// images force status=completed, and tags are unioned rather than
// replaced. Explicit Status is applied last and wins.
func (d *Dream) ApplyUpdate(fields UpdateFields, now time.Time) {
	if fields.Title != nil {
		d.Title = *fields.Title
		d.touch(now)
	}
	if fields.Tags != nil {
		d.AddTags(fields.Tags, now)
	}
	if fields.Mood != nil {
		d.SetMood(*fields.Mood, now)
	}
	if fields.Transcription != nil {
		d.SetTranscription(*fields.Transcription, now)
	}
	if fields.ProcessedData != nil {
		d.SetProcessedData(fields.ProcessedData, now)
	}
	if fields.ComicImages != nil {
		d.SetComicImages(fields.ComicImages, now)
	}
	if fields.Status != nil {
		d.UpdateStatus(*fields.Status, now)
	}
}

type DreamFilter struct {
	Mood   string
	Status string
	Tag    string
	UserID string
}

type DreamStats struct {
	TotalDreams  int            `json:"totalDreams"`
	RecentDreams int            `json:"recentDreams"`
	StatusCounts map[string]int `json:"statusCounts"`
	MoodCounts   map[string]int `json:"moodCounts"`
}
