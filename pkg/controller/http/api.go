package http

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/errutil"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// maxJSONBytes bounds JSON request bodies
const maxJSONBytes = 8 << 20

type storeResponse struct {
	StoreID     string    `json:"storeId"`
	DisplayName string    `json:"displayName,omitempty"`
	Mode        string    `json:"mode"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

func toStoreResponse(s *model.KnowledgeStore) storeResponse {
	return storeResponse{
		StoreID:     s.ID.String(),
		DisplayName: s.DisplayName,
		Mode:        s.Mode.String(),
		CreatedAt:   s.CreatedAt,
	}
}

type chunkPayload struct {
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

type artifactResponse struct {
	Kind     string         `json:"kind"`
	FileID   string         `json:"fileId,omitempty"`
	State    string         `json:"state,omitempty"`
	FileName string         `json:"fileName"`
	MIMEType string         `json:"mimeType"`
	Chunks   []chunkPayload `json:"chunks,omitempty"`
}

type recordResponse struct {
	StoreID    string    `json:"storeId"`
	FileName   string    `json:"fileName"`
	Kind       string    `json:"kind"`
	Ref        string    `json:"ref"`
	MIMEType   string    `json:"mimeType"`
	ChunkCount int       `json:"chunkCount,omitempty"`
	LinkedAt   time.Time `json:"linkedAt"`
}

func toRecordResponse(r *model.LinkedRecord) recordResponse {
	return recordResponse{
		StoreID:    r.StoreID.String(),
		FileName:   r.SourceFileName,
		Kind:       r.Kind.String(),
		Ref:        r.ArtifactRef,
		MIMEType:   r.MIMEType,
		ChunkCount: r.ChunkCount,
		LinkedAt:   r.LinkedAt,
	}
}

type passageResponse struct {
	Source     string   `json:"source"`
	Text       string   `json:"text"`
	ChunkIndex *int     `json:"chunkIndex,omitempty"`
	Score      *float64 `json:"score,omitempty"`
}

// resolveStoreID returns the requested store, falling back to the master store
func (s *Server) resolveStoreID(ctx context.Context, raw string) (model.StoreID, error) {
	if raw = strings.TrimSpace(raw); raw != "" {
		id := model.NormalizeStoreID(raw)
		if err := id.Validate(); err != nil {
			return "", err
		}
		return id, nil
	}

	id, err := s.uc.Store.MasterStore(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", goerr.Wrap(model.ErrInvalidStoreID, "storeId is required")
	}
	return id, nil
}

func (s *Server) createStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"displayName"`
		Master      bool   `json:"master"`
	}
	if err := decodeJSON(r, maxJSONBytes, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		badRequest(w, r, "displayName is required")
		return
	}

	store, err := s.uc.Store.CreateStore(r.Context(), req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Master {
		if _, err := s.uc.Store.UseStore(r.Context(), store.ID.String()); err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, r, http.StatusCreated, toStoreResponse(store))
}

func (s *Server) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := s.uc.Store.ListStores(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	master, err := s.uc.Store.MasterStore(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := struct {
		Stores []storeResponse `json:"stores"`
		Master string          `json:"master,omitempty"`
	}{
		Stores: make([]storeResponse, len(stores)),
		Master: master.String(),
	}
	for i, st := range stores {
		resp.Stores[i] = toStoreResponse(st)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// readDocument reads the multipart fields "file", "fileName" and "mimeType"
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*model.SourceDocument, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, goerr.Wrap(err, "invalid multipart body")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, goerr.Wrap(err, "file field is required")
	}
	defer safe.Close(r.Context(), file)

	content, err := safe.ReadAll(file, s.maxUploadBytes)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(r.FormValue("fileName"))
	if name == "" {
		name = header.Filename
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	return model.NewSourceDocument(name, content, r.FormValue("mimeType")), nil
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	storeID, err := s.resolveStoreID(r.Context(), r.FormValue("storeId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	artifact, err := s.uc.Ingest.Ingest(r.Context(), storeID, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := artifactResponse{
		Kind:     artifact.Kind.String(),
		FileID:   artifact.ExternalID,
		FileName: artifact.SourceFileName,
		MIMEType: artifact.MIMEType,
	}
	if artifact.Kind == types.ArtifactKindFileRef {
		resp.State = artifact.State.String()
	}
	for _, c := range artifact.Chunks {
		resp.Chunks = append(resp.Chunks, chunkPayload(c))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) link(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID  string         `json:"storeId"`
		FileID   string         `json:"fileId"`
		FileName string         `json:"fileName"`
		MIMEType string         `json:"mimeType"`
		Chunks   []chunkPayload `json:"chunks"`
	}
	if err := decodeJSON(r, maxJSONBytes, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	if req.FileName == "" {
		badRequest(w, r, "fileName is required")
		return
	}
	storeID, err := s.resolveStoreID(r.Context(), req.StoreID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	mimeType := model.ResolveMIMEType(req.FileName, req.MIMEType)
	var artifact *model.ProcessedArtifact
	switch {
	case req.FileID != "":
		// Uploads are only returned once processing finished
		artifact = model.NewFileRef(&model.RemoteFile{
			Name:        req.FileID,
			DisplayName: req.FileName,
			MIMEType:    mimeType,
			State:       types.FileStateActive,
		})
	case len(req.Chunks) > 0:
		chunks := make([]model.Chunk, len(req.Chunks))
		for i, c := range req.Chunks {
			chunks[i] = model.Chunk(c)
		}
		artifact = model.NewChunkSet(req.FileName, mimeType, chunks)
	default:
		badRequest(w, r, "fileId or chunks is required")
		return
	}

	record, err := s.uc.Link.Link(r.Context(), storeID, artifact, req.FileName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRecordResponse(record))
}

func (s *Server) addDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	storeID, err := s.resolveStoreID(r.Context(), r.FormValue("storeId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	record, err := s.uc.Build.AddDocument(r.Context(), storeID, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRecordResponse(record))
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID string `json:"storeId"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, maxJSONBytes, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	storeID, err := s.resolveStoreID(r.Context(), req.StoreID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := s.uc.Query.Query(r.Context(), storeID, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := struct {
		Text            string            `json:"text"`
		GroundingChunks []passageResponse `json:"groundingChunks"`
	}{
		Text:            answer.Text,
		GroundingChunks: make([]passageResponse, len(answer.Passages)),
	}
	for i, p := range answer.Passages {
		resp.GroundingChunks[i] = passageResponse{
			Source:     p.SourceFileName,
			Text:       p.ExcerptText,
			ChunkIndex: p.ChunkIndex,
			Score:      p.RelevanceScore,
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	files := []string{}
	if storeID, err := s.resolveStoreID(r.Context(), r.URL.Query().Get("storeId")); err == nil {
		files = s.uc.Catalog.ListFiles(r.Context(), storeID)
	} else {
		_ = errutil.Handle(r.Context(), err, "failed to resolve store for file list")
	}

	writeJSON(w, r, http.StatusOK, struct {
		Files []string `json:"files"`
	}{Files: files})
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		badRequest(w, r, "fileName is required")
		return
	}
	storeID, err := s.resolveStoreID(r.Context(), r.URL.Query().Get("storeId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.uc.Catalog.DeleteFile(r.Context(), storeID, fileName); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) questions(w http.ResponseWriter, r *http.Request) {
	storeID, err := s.resolveStoreID(r.Context(), r.URL.Query().Get("storeId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, struct {
		Questions []string `json:"questions"`
	}{Questions: s.uc.Query.SuggestQuestions(r.Context(), storeID)})
}
