package domain

// Stage results returned to the HTTP adapter. Each carries the Dream
// as persisted after the stage transition.

type TranscribeResult struct {
	Transcription string                `json:"transcription"`
	Metadata      TranscriptionMetadata `json:"metadata"`
	Dream         *Dream                `json:"dream"`
}

type ProcessResult struct {
	ProcessedData *StructuredDream      `json:"processedData"`
	Stats         ProcessingStatsResult `json:"stats"`
	Dream         *Dream                `json:"dream"`
}

type SynthesizeOptions struct {
	Style      string
	Concurrent bool
	DelayMS    int
	SaveToFile bool
}

func DefaultSynthesizeOptions() SynthesizeOptions {
	return SynthesizeOptions{
		Style:      "watercolor",
		Concurrent: false,
		DelayMS:    2000,
		SaveToFile: true,
	}
}

type SynthesizeResult struct {
	Summary            string             `json:"summary"`
	TotalScenes        int                `json:"total_scenes"`
	SuccessfulImages   int                `json:"successful_images"`
	FailedImages       int                `json:"failed_images"`
	TotalTimeMS        int64              `json:"total_time"`
	Images             []GeneratedImage   `json:"images"`
	SavedFiles         []SavedImageFile   `json:"saved_files"`
	GenerationMetadata GenerationMetadata `json:"generation_metadata"`
	Dream              *Dream             `json:"dream"`
}
