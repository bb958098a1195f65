package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/target/jobboard-api/internal/domain/model"
	"github.com/target/jobboard-api/internal/domain/taxonomy"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

// memoryDocStore is a versioned in-memory core.UserDataStore.
type memoryDocStore struct {
	mu   sync.Mutex
	docs map[string]model.UserDocument
	puts int
}

func newMemoryDocStore() *memoryDocStore {
	return &memoryDocStore{docs: make(map[string]model.UserDocument)}
}

func docID(userID string, key model.DocumentKey) string { return userID + "/" + string(key) }

func (m *memoryDocStore) Get(_ context.Context, userID string, key model.DocumentKey) (*model.UserDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[docID(userID, key)]
	if !ok {
		return nil, model.ErrDocumentNotFound
	}
	return &doc, nil
}

func (m *memoryDocStore) Put(_ context.Context, p model.PutUserDocumentParams) (*model.UserDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := docID(p.UserID, p.Key)
	cur, ok := m.docs[id]
	switch {
	case !ok && p.ExpectedVersion != 0, ok && cur.Version != p.ExpectedVersion:
		return nil, model.ErrDocumentVersionConflict
	}
	doc := model.UserDocument{
		UserID:    p.UserID,
		Key:       p.Key,
		Value:     append(json.RawMessage(nil), p.Value...),
		Version:   p.ExpectedVersion + 1,
		UpdatedAt: testNow,
	}
	m.docs[id] = doc
	m.puts++
	return &doc, nil
}

func (m *memoryDocStore) Delete(_ context.Context, userID string, key model.DocumentKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := docID(userID, key)
	_, ok := m.docs[id]
	delete(m.docs, id)
	return ok, nil
}

func (m *memoryDocStore) ListUsersWithKey(_ context.Context, key model.DocumentKey) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []string
	for _, doc := range m.docs {
		if doc.Key == key {
			users = append(users, doc.UserID)
		}
	}
	sort.Strings(users)
	return users, nil
}

// seed stores v as the user's document at version 1.
func (m *memoryDocStore) seed(t *testing.T, userID string, key model.DocumentKey, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	_, err = m.Put(context.Background(), model.PutUserDocumentParams{UserID: userID, Key: key, Value: raw})
	require.NoError(t, err)
}

// decode loads the stored document into out.
func (m *memoryDocStore) decode(t *testing.T, userID string, key model.DocumentKey, out any) int64 {
	t.Helper()
	doc, err := m.Get(context.Background(), userID, key)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(doc.Value, out))
	return doc.Version
}

// stubListings answers Exists from a fixed set of ids.
type stubListings map[string]bool

func (s stubListings) Exists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

func testCatalog(t *testing.T) *taxonomy.Catalog {
	t.Helper()
	c, err := taxonomy.Default()
	require.NoError(t, err)
	return c
}
