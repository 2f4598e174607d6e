package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucidlog/dream-diary/internal/core/domain"
	"github.com/lucidlog/dream-diary/internal/core/ports"
)

func (rt *Router) uploadDream(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.opts.MaxUploadBytes)

	file, header, err := r.FormFile("audio")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "audio file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "audio/") {
		writeError(w, http.StatusBadRequest, "Only audio files are allowed. Supported formats: MP3, WAV, WebM, OGG, M4A")
		return
	}

	title := r.FormValue("title")
	mood := r.FormValue("mood")
	userID := r.FormValue("userId")
	if msg := validateDreamFields(title, mood, userID); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			writeError(w, http.StatusBadRequest, "tags must be a JSON array of strings")
			return
		}
	}

	dream, err := rt.creator.UploadAudio(r.Context(), ports.UploadInput{
		Title:    title,
		Tags:     tags,
		Mood:     mood,
		UserID:   userID,
		Filename: header.Filename,
		MimeType: mimeType,
		Body:     file,
	})
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Dream uploaded successfully",
		"dream":   dream,
	})
}

func (rt *Router) createDream(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         string   `json:"title"`
		Tags          []string `json:"tags"`
		Mood          string   `json:"mood"`
		UserID        string   `json:"userId"`
		Transcription string   `json:"transcription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validateDreamFields(req.Title, req.Mood, req.UserID); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	dream, err := rt.creator.CreateManual(r.Context(), ports.CreateInput{
		Title:         req.Title,
		Tags:          req.Tags,
		Mood:          req.Mood,
		UserID:        req.UserID,
		Transcription: req.Transcription,
	})
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Dream created successfully",
		"dream":   dream,
	})
}

func (rt *Router) listDreams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.DreamFilter{
		Mood:   q.Get("mood"),
		Status: q.Get("status"),
		Tag:    q.Get("tag"),
		UserID: q.Get("userId"),
	}
	if filter.Mood != "" && !domain.ValidMood(filter.Mood) {
		writeError(w, http.StatusBadRequest, "invalid mood filter")
		return
	}
	if filter.Status != "" && !domain.ValidStatus(domain.DreamStatus(filter.Status)) {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	if filter.UserID != "" {
		if _, err := uuid.Parse(filter.UserID); err != nil {
			writeError(w, http.StatusBadRequest, "userId must be a UUID")
			return
		}
	}

	dreams, err := rt.manager.List(r.Context(), filter)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	if dreams == nil {
		dreams = []domain.Dream{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(dreams),
		"dreams":  dreams,
	})
}

func (rt *Router) getDream(w http.ResponseWriter, r *http.Request) {
	dream, err := rt.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"dream":   dream,
	})
}

func (rt *Router) updateDream(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         *string  `json:"title"`
		Tags          []string `json:"tags"`
		Mood          *string  `json:"mood"`
		Transcription *string  `json:"transcription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Title != nil {
		if msg := validateDreamFields(*req.Title, "", ""); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if req.Mood != nil && *req.Mood != "" && !domain.ValidMood(*req.Mood) {
		writeError(w, http.StatusBadRequest, "invalid mood")
		return
	}

	dream, err := rt.manager.Update(r.Context(), r.PathValue("id"), domain.UpdateFields{
		Title:         req.Title,
		Tags:          req.Tags,
		Mood:          req.Mood,
		Transcription: req.Transcription,
	})
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Dream updated successfully",
		"dream":   dream,
	})
}

func (rt *Router) deleteDream(w http.ResponseWriter, r *http.Request) {
	dream, err := rt.manager.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Dream deleted successfully",
		"dream":   dream,
	})
}

func (rt *Router) transcribeDream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	start := time.Now()
	result, err := rt.pipeline.Transcribe(r.Context(), id)
	rt.metrics.RecordStage(serviceName, "transcribe", stageStatus(err), time.Since(start))
	if err != nil {
		writeStageFailure(w, "Transcription failed", id, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Transcription completed successfully",
		"dream_id":      id,
		"transcription": result.Transcription,
		"metadata":      result.Metadata,
		"dream":         result.Dream,
	})
}

func (rt *Router) processDream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	opts := domain.DefaultStructureOptions()
	var req struct {
		SceneCount        int   `json:"sceneCount"`
		IncludeEmotions   *bool `json:"includeEmotions"`
		IncludeCharacters *bool `json:"includeCharacters"`
	}
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SceneCount > 0 {
		opts.SceneCount = req.SceneCount
	}
	if req.IncludeEmotions != nil {
		opts.IncludeEmotions = *req.IncludeEmotions
	}
	if req.IncludeCharacters != nil {
		opts.IncludeCharacters = *req.IncludeCharacters
	}

	start := time.Now()
	result, err := rt.pipeline.Process(r.Context(), id, opts)
	rt.metrics.RecordStage(serviceName, "process", stageStatus(err), time.Since(start))
	if err != nil {
		writeStageFailure(w, "Dream processing failed", id, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Dream processing completed successfully",
		"dream_id":      id,
		"processedData": result.ProcessedData,
		"stats":         result.Stats,
		"dream":         result.Dream,
	})
}

func (rt *Router) generateImages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	opts := domain.DefaultSynthesizeOptions()
	var req struct {
		Style      string `json:"style"`
		Concurrent *bool  `json:"concurrent"`
		DelayMS    *int   `json:"delay"`
		SaveToFile *bool  `json:"saveToFile"`
	}
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Style != "" {
		opts.Style = req.Style
	}
	if req.Concurrent != nil {
		opts.Concurrent = *req.Concurrent
	}
	if req.DelayMS != nil {
		opts.DelayMS = *req.DelayMS
	}
	if req.SaveToFile != nil {
		opts.SaveToFile = *req.SaveToFile
	}

	start := time.Now()
	result, err := rt.pipeline.GenerateImages(r.Context(), id, opts)
	rt.metrics.RecordStage(serviceName, "generate_images", stageStatus(err), time.Since(start))
	if err != nil {
		writeStageFailure(w, "Image generation failed", id, err)
		return
	}
	rt.metrics.RecordSceneImages(serviceName, result.SuccessfulImages, result.FailedImages)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"message":             fmt.Sprintf("Generated %d/%d images successfully", result.SuccessfulImages, result.TotalScenes),
		"dream_id":            id,
		"summary":             result.Summary,
		"total_scenes":        result.TotalScenes,
		"successful_images":   result.SuccessfulImages,
		"failed_images":       result.FailedImages,
		"total_time":          result.TotalTimeMS,
		"images":              result.Images,
		"saved_files":         result.SavedFiles,
		"generation_metadata": result.GenerationMetadata,
		"dream":               result.Dream,
	})
}

// serveSceneImage looks the file up in the generation metadata first,
// then falls back to the canonical on-disk name, so images survive a
// lost or pre-metadata record.
func (rt *Router) serveSceneImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	scene, err := strconv.Atoi(r.PathValue("scene"))
	if err != nil || scene < 1 || scene > 10 {
		writeError(w, http.StatusBadRequest, "Invalid scene number. Must be between 1 and 10.")
		return
	}

	filename := fmt.Sprintf("dream_%s_scene_%d.png", id, scene)
	if dream, err := rt.manager.Get(r.Context(), id); err == nil && dream.ComicImages != nil {
		for _, saved := range dream.ComicImages.GenerationMetadata.SavedFiles {
			if saved.SceneSequence == scene {
				filename = saved.Filename
				break
			}
		}
	}

	rc, err := rt.images.Open(r.Context(), filename)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Image not found for dream %s scene %d", id, scene))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/png")
	_, _ = io.Copy(w, rc)
}

func (rt *Router) statsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.manager.Stats(r.Context())
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

func (rt *Router) transcriptionInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"transcriptionService": rt.transcriber.Info(),
	})
}

func validateDreamFields(title, mood, userID string) string {
	if len(title) > 200 {
		return "title must be at most 200 characters"
	}
	if mood != "" && !domain.ValidMood(mood) {
		return "invalid mood"
	}
	if userID != "" {
		if _, err := uuid.Parse(userID); err != nil {
			return "userId must be a UUID"
		}
	}
	return ""
}

// writeStageFailure reports a pipeline stage error. Rejections that
// never started the stage get the plain envelope; a stage that ran and
// failed gets details plus the dream id now holding status=error.
func writeStageFailure(w http.ResponseWriter, stage, dreamID string, err error) {
	status := mapErrorToHTTPStatus(err)
	switch status {
	case http.StatusNotFound, http.StatusBadRequest:
		writeError(w, status, err.Error())
	default:
		writeJSON(w, status, errorEnvelope{
			Success: false,
			Error:   stage,
			Details: err.Error(),
			DreamID: dreamID,
		})
	}
}

func stageStatus(err error) string {
	if err == nil {
		return "success"
	}
	return "error"
}

func decodeOptionalJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
