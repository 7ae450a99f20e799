package processor

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/classify"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/lookup"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/mapper"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/store"
)

// stubClient serves canned documents keyed by URL and fails everything else.
type stubClient struct {
	mu      sync.Mutex
	docs    map[string]*lookup.Document
	errs    map[string]error
	fetched []string
}

func (c *stubClient) Fetch(ctx context.Context, profileURL string) (*lookup.Document, error) {
	c.mu.Lock()
	c.fetched = append(c.fetched, profileURL)
	c.mu.Unlock()

	if err, ok := c.errs[profileURL]; ok {
		return nil, err
	}
	if doc, ok := c.docs[profileURL]; ok {
		return doc, nil
	}
	return nil, lookup.ErrNotFound
}

func newTestProcessor(t *testing.T, client lookup.Client, st store.Store) *Processor {
	t.Helper()
	m, err := mapper.New(classify.DefaultConfig())
	require.NoError(t, err)
	return New(client, m, st, nil, zap.NewNop(), 4)
}

func profileURL(slug string) string {
	return fmt.Sprintf("https://www.linkedin.com/in/%s/", slug)
}

func TestProcessURLs_Success(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("a"): {PublicIdentifier: "a", FullName: "A"},
		profileURL("b"): {PublicIdentifier: "b", FullName: "B"},
	}}
	st := store.NewMemoryStore()
	p := newTestProcessor(t, client, st)

	summary := p.ProcessURLs(context.Background(), []string{profileURL("a"), profileURL("b")}, 0)
	require.Equal(t, 2, summary.Processed)
	require.Zero(t, summary.Skipped)
	require.Empty(t, summary.Failures)

	ds, err := st.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Profiles, 2)
}

func TestProcessURLs_OneBadInputDoesNotAbortBatch(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("a"): {PublicIdentifier: "a"},
		profileURL("c"): {PublicIdentifier: "c"},
	}}
	st := store.NewMemoryStore()
	p := newTestProcessor(t, client, st)

	urls := []string{profileURL("a"), profileURL("missing"), profileURL("c")}
	summary := p.ProcessURLs(context.Background(), urls, 0)

	require.Equal(t, 2, summary.Processed)
	require.Len(t, summary.Failures, 1)
	require.Equal(t, profileURL("missing"), summary.Failures[0].Input)
}

func TestProcessURLs_InvalidURLReported(t *testing.T) {
	client := &stubClient{}
	p := newTestProcessor(t, client, store.NewMemoryStore())

	summary := p.ProcessURLs(context.Background(), []string{"https://www.linkedin.com/search?q=x"}, 0)
	require.Zero(t, summary.Processed)
	require.Len(t, summary.Failures, 1)
	require.Equal(t, "not a LinkedIn profile URL", summary.Failures[0].Reason)
	// Invalid inputs never reach the API.
	require.Empty(t, client.fetched)
}

func TestProcessURLs_DuplicatesSkipped(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("a"): {PublicIdentifier: "a"},
	}}
	p := newTestProcessor(t, client, store.NewMemoryStore())

	summary := p.ProcessURLs(context.Background(), []string{profileURL("a"), profileURL("a"), profileURL("a")}, 0)
	require.Equal(t, 1, summary.Processed)
	require.Equal(t, 2, summary.Skipped)
	require.Len(t, client.fetched, 1)
}

func TestProcessURLs_LimitCapsBatch(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("a"): {PublicIdentifier: "a"},
		profileURL("b"): {PublicIdentifier: "b"},
		profileURL("c"): {PublicIdentifier: "c"},
	}}
	p := newTestProcessor(t, client, store.NewMemoryStore())

	summary := p.ProcessURLs(context.Background(), []string{profileURL("a"), profileURL("b"), profileURL("c")}, 2)
	require.Equal(t, 2, summary.Processed)
	require.Equal(t, 1, summary.Skipped)
	require.Len(t, client.fetched, 2)
}

func TestProcessURLs_MissingIdentifierReported(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("blank"): {FullName: "No Identifier"},
	}}
	p := newTestProcessor(t, client, store.NewMemoryStore())

	summary := p.ProcessURLs(context.Background(), []string{profileURL("blank")}, 0)
	require.Zero(t, summary.Processed)
	require.Len(t, summary.Failures, 1)
	require.Contains(t, summary.Failures[0].Reason, "missing identifier")
}

func TestProcessURLs_AllocatesSequentialIDs(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("a"): {PublicIdentifier: "a"},
		profileURL("b"): {PublicIdentifier: "b"},
	}}
	st := store.NewMemoryStore()
	p := newTestProcessor(t, client, st)

	summary := p.ProcessURLs(context.Background(), []string{profileURL("a"), profileURL("b")}, 0)
	require.Equal(t, 2, summary.Processed)

	ds, err := st.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), ds.Profiles[0].ProfileID)
	require.Equal(t, int64(2), ds.Profiles[1].ProfileID)
}

func TestProcessURLs_DocumentIDWins(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("a"): {ProfileID: 42, PublicIdentifier: "a"},
	}}
	st := store.NewMemoryStore()
	p := newTestProcessor(t, client, st)

	summary := p.ProcessURLs(context.Background(), []string{profileURL("a")}, 0)
	require.Equal(t, 1, summary.Processed)

	ds, err := st.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), ds.Profiles[0].ProfileID)
}

func TestProcessURLs_ReprocessingReusesID(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("a"): {PublicIdentifier: "a", FullName: "First"},
	}}
	st := store.NewMemoryStore()
	p := newTestProcessor(t, client, st)

	require.Equal(t, 1, p.ProcessURLs(context.Background(), []string{profileURL("a")}, 0).Processed)

	client.docs[profileURL("a")] = &lookup.Document{PublicIdentifier: "a", FullName: "Second"}
	require.Equal(t, 1, p.ProcessURLs(context.Background(), []string{profileURL("a")}, 0).Processed)

	ds, err := st.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Profiles, 1)
	require.Equal(t, int64(1), ds.Profiles[0].ProfileID)
	require.Equal(t, "Second", ds.Profiles[0].FullName)
}

func TestProcessNewURLs_SkipsPersistedProfiles(t *testing.T) {
	client := &stubClient{docs: map[string]*lookup.Document{
		profileURL("known"): {PublicIdentifier: "known"},
		profileURL("new"):   {PublicIdentifier: "new"},
	}}
	st := store.NewMemoryStore()
	p := newTestProcessor(t, client, st)

	require.Equal(t, 1, p.ProcessURLs(context.Background(), []string{profileURL("known")}, 0).Processed)
	client.fetched = nil

	summary := p.ProcessNewURLs(context.Background(), []string{profileURL("known"), profileURL("new")}, 0)
	require.Equal(t, 1, summary.Processed)
	require.Equal(t, 1, summary.Skipped)
	require.Empty(t, summary.Failures)
	// The persisted profile never hits the API again.
	require.Equal(t, []string{profileURL("new")}, client.fetched)
}

func TestProcessURLs_TransientErrorReported(t *testing.T) {
	client := &stubClient{errs: map[string]error{
		profileURL("flaky"): &lookup.Error{
			ProfileURL: profileURL("flaky"),
			StatusCode: 503,
			Transient:  true,
			Err:        fmt.Errorf("upstream unavailable"),
		},
	}}
	p := newTestProcessor(t, client, store.NewMemoryStore())

	summary := p.ProcessURLs(context.Background(), []string{profileURL("flaky")}, 0)
	require.Zero(t, summary.Processed)
	require.Len(t, summary.Failures, 1)
	require.Contains(t, summary.Failures[0].Reason, "upstream unavailable")
}

func TestProcessURLs_EmptyBatch(t *testing.T) {
	p := newTestProcessor(t, &stubClient{}, store.NewMemoryStore())
	summary := p.ProcessURLs(context.Background(), nil, 0)
	require.Zero(t, summary.Processed)
	require.Zero(t, summary.Skipped)
	require.Empty(t, summary.Failures)
}
