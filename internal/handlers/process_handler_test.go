package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/classify"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/lookup"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/mapper"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/processor"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/store"
)

// stubClient serves canned documents keyed by URL.
type stubClient struct {
	docs map[string]*lookup.Document
}

func (c *stubClient) Fetch(ctx context.Context, profileURL string) (*lookup.Document, error) {
	if doc, ok := c.docs[profileURL]; ok {
		return doc, nil
	}
	return nil, lookup.ErrNotFound
}

func setupProcessHandler(t *testing.T, client lookup.Client, st store.Store) *mux.Router {
	t.Helper()
	m, err := mapper.New(classify.DefaultConfig())
	require.NoError(t, err)
	p := processor.New(client, m, st, nil, zap.NewNop(), 2)

	r := mux.NewRouter()
	NewProcessHandler(p, zap.NewNop()).RegisterRoutes(r, zap.NewNop())
	return r
}

func multipartForm(t *testing.T, fields map[string]string, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestProcessHandler_SingleURL(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		"https://www.linkedin.com/in/jane-doe/": {PublicIdentifier: "jane-doe", FullName: "Jane Doe"},
	}}
	st := store.NewMemoryStore()
	r := setupProcessHandler(t, client, st)

	body, contentType := multipartForm(t, map[string]string{
		"linkedin_url": "https://www.linkedin.com/in/jane-doe/",
	}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])
	require.Equal(t, float64(1), resp["processed"])

	ds, err := st.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Profiles, 1)
	require.Equal(t, "Jane Doe", ds.Profiles[0].FullName)
}

func TestProcessHandler_CSVUpload(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		"https://www.linkedin.com/in/a/": {PublicIdentifier: "a"},
		"https://www.linkedin.com/in/b/": {PublicIdentifier: "b"},
	}}
	r := setupProcessHandler(t, client, store.NewMemoryStore())

	csvContent := []byte("https://www.linkedin.com/in/a/\nhttps://www.linkedin.com/in/b/\n")
	body, contentType := multipartForm(t, nil, "urls.csv", csvContent)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, float64(2), resp["processed"])
}

func TestProcessHandler_NoInput(t *testing.T) {
	r := setupProcessHandler(t, &stubClient{}, store.NewMemoryStore())

	body, contentType := multipartForm(t, map[string]string{"unrelated": "x"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessHandler_AllInputsFail(t *testing.T) {
	r := setupProcessHandler(t, &stubClient{}, store.NewMemoryStore())

	body, contentType := multipartForm(t, map[string]string{
		"linkedin_url": "https://www.linkedin.com/in/unknown/",
	}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, false, resp["success"])
	failures, ok := resp["failures"].([]interface{})
	require.True(t, ok)
	require.Len(t, failures, 1)
}

func rosterExcelBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestProcessHandler_ExcelUpload(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		"https://www.linkedin.com/in/a/": {PublicIdentifier: "a"},
		"https://www.linkedin.com/in/b/": {PublicIdentifier: "b"},
		"https://www.linkedin.com/in/c/": {PublicIdentifier: "c"},
	}}
	r := setupProcessHandler(t, client, store.NewMemoryStore())

	excelContent := rosterExcelBytes(t, [][]interface{}{
		{"Full Name", "Linkedin Profile"},
		{"A", "https://www.linkedin.com/in/a/"},
		{"B", "https://www.linkedin.com/in/b/"},
		{"C", "https://www.linkedin.com/in/c/"},
	})

	body, contentType := multipartForm(t, map[string]string{"limit": "2"}, "roster.xlsx", excelContent)
	req := httptest.NewRequest(http.MethodPost, "/process-excel", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, float64(2), resp["processed"])
	require.Equal(t, float64(1), resp["skipped"])
}

func TestProcessHandler_ExcelUpload_BadLimit(t *testing.T) {
	r := setupProcessHandler(t, &stubClient{}, store.NewMemoryStore())

	excelContent := rosterExcelBytes(t, [][]interface{}{
		{"Linkedin Profile"},
		{"https://www.linkedin.com/in/a/"},
	})

	body, contentType := multipartForm(t, map[string]string{"limit": "-1"}, "roster.xlsx", excelContent)
	req := httptest.NewRequest(http.MethodPost, "/process-excel", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessHandler_ExcelUpload_NoFile(t *testing.T) {
	r := setupProcessHandler(t, &stubClient{}, store.NewMemoryStore())

	body, contentType := multipartForm(t, map[string]string{"limit": "2"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/process-excel", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
