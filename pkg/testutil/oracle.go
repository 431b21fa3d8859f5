package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/facepass-lab/backend/pkg/recognition"
)

// MockOracle keeps faces in memory. An image matches a face if it has the
// same bytes as the image the face was indexed from. Set the XFunc fields to
// override a single call.
type MockOracle struct {
	EnabledFunc     func() bool
	IndexFacesFunc  func(ctx context.Context, image []byte, externalID string) (*recognition.IndexResult, error)
	SearchFaceFunc  func(ctx context.Context, image []byte, threshold float64) (*recognition.Match, error)
	DeleteFacesFunc func(ctx context.Context, faceIDs ...string) error

	// Similarity is reported for every match, 99.5 by default.
	Similarity float64

	mu     sync.Mutex
	next   int
	faces  map[string]recognition.Face
	images map[string]string
}

func NewMockOracle() *MockOracle {
	return &MockOracle{
		Similarity: 99.5,
		faces:      map[string]recognition.Face{},
		images:     map[string]string{},
	}
}

// Register binds image to a face id as if it had been indexed before.
func (m *MockOracle) Register(image []byte, faceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.faces[faceID] = recognition.Face{FaceID: faceID, Confidence: 99.9}
	m.images[string(image)] = faceID
}

// Index stores n faces for image. Only the first one answers searches.
func (m *MockOracle) Index(image []byte, externalID string, n int) *recognition.IndexResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &recognition.IndexResult{}
	for i := 0; i < n; i++ {
		m.next++
		face := recognition.Face{
			FaceID:     fmt.Sprintf("mock-face-%d", m.next),
			ExternalID: externalID,
			Confidence: 99.9,
		}

		m.faces[face.FaceID] = face
		if i == 0 {
			m.images[string(image)] = face.FaceID
		}
		result.Faces = append(result.Faces, face)
	}

	return result
}

// FaceCount returns how many faces the collection holds.
func (m *MockOracle) FaceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.faces)
}

func (m *MockOracle) Enabled() bool {
	if m.EnabledFunc != nil {
		return m.EnabledFunc()
	}

	return true
}

func (m *MockOracle) IndexFaces(
	ctx context.Context, image []byte, externalID string,
) (*recognition.IndexResult, error) {
	if m.IndexFacesFunc != nil {
		return m.IndexFacesFunc(ctx, image, externalID)
	}

	return m.Index(image, externalID, 1), nil
}

func (m *MockOracle) SearchFace(
	ctx context.Context, image []byte, threshold float64,
) (*recognition.Match, error) {
	if m.SearchFaceFunc != nil {
		return m.SearchFaceFunc(ctx, image, threshold)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	faceID, ok := m.images[string(image)]
	if !ok {
		return nil, recognition.ErrNoMatch
	}

	if _, ok := m.faces[faceID]; !ok || m.Similarity < threshold {
		return nil, recognition.ErrNoMatch
	}

	return &recognition.Match{FaceID: faceID, Similarity: m.Similarity}, nil
}

func (m *MockOracle) DeleteFaces(ctx context.Context, faceIDs ...string) error {
	if m.DeleteFacesFunc != nil {
		return m.DeleteFacesFunc(ctx, faceIDs...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range faceIDs {
		delete(m.faces, id)
	}

	return nil
}

func (m *MockOracle) EnsureCollection(ctx context.Context) (bool, error) {
	return false, nil
}

func (m *MockOracle) DescribeCollection(ctx context.Context) (*recognition.CollectionInfo, error) {
	return &recognition.CollectionInfo{ID: "mock", FaceCount: int64(m.FaceCount())}, nil
}

func (m *MockOracle) ListFaces(ctx context.Context, fn func([]recognition.Face) error) error {
	m.mu.Lock()
	faces := make([]recognition.Face, 0, len(m.faces))
	for _, face := range m.faces {
		faces = append(faces, face)
	}
	m.mu.Unlock()

	if len(faces) == 0 {
		return nil
	}

	return fn(faces)
}
