package domain

import (
	"testing"
	"time"
)

func TestAddTagsIsIdempotentUnderDuplicates(t *testing.T) {
	now := time.Now().UTC()
	d := NewDream("d-1", "title", "", nil, "", "", "", now)

	d.AddTags([]string{"flying", "flying"}, now)
	d.AddTags([]string{"flying"}, now)

	if len(d.Tags) != 1 || d.Tags[0] != "flying" {
		t.Fatalf("expected tag set {flying}, got %v", d.Tags)
	}
}

func TestAddTagsUnionsInsteadOfReplacing(t *testing.T) {
	now := time.Now().UTC()
	d := NewDream("d-1", "title", "", []string{"water"}, "", "", "", now)

	d.AddTags([]string{"flying", "water"}, now)

	if len(d.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", d.Tags)
	}
}

func TestSettersDriveStatusTransitions(t *testing.T) {
	now := time.Now().UTC()
	d := NewDream("d-1", "title", "", nil, "", "", "", now)
	if d.Status != StatusUploaded {
		t.Fatalf("expected uploaded, got %s", d.Status)
	}

	d.SetTranscription("i was flying", now)
	if d.Status != StatusTranscribed {
		t.Fatalf("expected transcribed, got %s", d.Status)
	}

	d.SetProcessedData(&StructuredDream{Summary: "s", Scenes: []Scene{{Sequence: 1}}}, now)
	if d.Status != StatusProcessed {
		t.Fatalf("expected processed, got %s", d.Status)
	}

	d.SetComicImages(&ComicImages{}, now)
	if d.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", d.Status)
	}
}

func TestApplyUpdateRoutesFieldsThroughMutators(t *testing.T) {
	now := time.Now().UTC()
	d := NewDream("d-1", "old", "", []string{"a"}, "", "", "", now)

	title := "new title"
	mood := "happy"
	text := "transcript"
	d.ApplyUpdate(UpdateFields{
		Title:         &title,
		Tags:          []string{"a", "b"},
		Mood:          &mood,
		Transcription: &text,
	}, now)

	if d.Title != "new title" {
		t.Fatalf("title not applied: %q", d.Title)
	}
	if len(d.Tags) != 2 {
		t.Fatalf("expected unioned tags, got %v", d.Tags)
	}
	if d.Mood != "happy" {
		t.Fatalf("mood not applied: %q", d.Mood)
	}
	if d.Status != StatusTranscribed {
		t.Fatalf("transcription update must force status=transcribed, got %s", d.Status)
	}
}

func TestApplyUpdateExplicitStatusWins(t *testing.T) {
	now := time.Now().UTC()
	d := NewDream("d-1", "t", "", nil, "", "", "", now)

	text := "transcript"
	status := StatusError
	d.ApplyUpdate(UpdateFields{Transcription: &text, Status: &status}, now)

	if d.Status != StatusError {
		t.Fatalf("explicit status must win, got %s", d.Status)
	}
	if d.Transcription != "transcript" {
		t.Fatalf("transcription lost: %q", d.Transcription)
	}
}

func TestValidStatusRejectsUnknownValues(t *testing.T) {
	for _, s := range []DreamStatus{
		StatusUploaded, StatusTranscribing, StatusTranscribed, StatusProcessing,
		StatusProcessed, StatusGeneratingImages, StatusCompleted, StatusError,
	} {
		if !ValidStatus(s) {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if ValidStatus("dreaming") {
		t.Fatalf("unknown status must be rejected")
	}
}

func TestValidMoodVocabulary(t *testing.T) {
	if !ValidMood("weird") {
		t.Fatalf("weird must be a valid mood")
	}
	if ValidMood("melancholic") {
		t.Fatalf("melancholic is outside the vocabulary")
	}
}

func TestStripPayloadsDropsBinariesOnly(t *testing.T) {
	c := &ComicImages{
		Images: []GeneratedImage{
			{SceneSequence: 1, B64JSON: "payload", StyledPrompt: "p"},
			{SceneSequence: 2, Failed: true, Error: "boom"},
		},
	}
	out := c.StripPayloads()
	if out.Images[0].B64JSON != "" {
		t.Fatalf("payload must be stripped")
	}
	if out.Images[0].StyledPrompt != "p" || !out.Images[1].Failed {
		t.Fatalf("non-payload fields must survive")
	}
	if c.Images[0].B64JSON != "payload" {
		t.Fatalf("original must be untouched")
	}
}

func TestProcessingStatsAveragesSceneLengths(t *testing.T) {
	data := &StructuredDream{
		Mood:   "surreal",
		Themes: []string{"flight"},
		Scenes: []Scene{
			{Description: "four words in here", ImagePrompt: "two words"},
			{Description: "ok", ImagePrompt: "x"},
		},
	}
	stats := ProcessingStats(data)
	if stats.SceneCount != 2 {
		t.Fatalf("expected 2 scenes, got %d", stats.SceneCount)
	}
	if stats.TotalWords != 4+2+1+1 {
		t.Fatalf("unexpected word count %d", stats.TotalWords)
	}
	if stats.Mood != "surreal" || stats.Themes != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
