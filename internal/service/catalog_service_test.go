package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ConnKeeper/internal/codec"
	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/connfile/connfiletest"
	"ConnKeeper/internal/model"
	"ConnKeeper/internal/repo"
)

// Моки для CatalogRepository и SourceRepository
type mockCatalogRepo struct{ mock.Mock }

func (m *mockCatalogRepo) Upsert(ctx context.Context, owner string, entries []model.CatalogEntry) error {
	return m.Called(ctx, owner, entries).Error(0)
}
func (m *mockCatalogRepo) List(ctx context.Context, owner string) ([]model.CatalogEntry, error) {
	args := m.Called(ctx, owner)
	if v, ok := args.Get(0).([]model.CatalogEntry); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCatalogRepo) GetByNodeID(ctx context.Context, owner, nodeID string) (*model.CatalogEntry, error) {
	args := m.Called(ctx, owner, nodeID)
	if v, ok := args.Get(0).(*model.CatalogEntry); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.CatalogRepository = (*mockCatalogRepo)(nil)

type mockSourceRepo struct{ mock.Mock }

func (m *mockSourceRepo) CreateIfAbsent(ctx context.Context, src *model.Source) (bool, error) {
	args := m.Called(ctx, src)
	return args.Bool(0), args.Error(1)
}

var _ repo.SourceRepository = (*mockSourceRepo)(nil)

func newTestService() (*CatalogService, *mockCatalogRepo, *mockSourceRepo) {
	cr := &mockCatalogRepo{}
	sr := &mockSourceRepo{}
	return NewCatalogService(cr, sr, connfile.Settings{}, zap.NewNop().Sugar()), cr, sr
}

func TestCatalogService_Import(t *testing.T) {
	svc, cr, sr := newTestService()
	data, err := connfiletest.SampleDocument("")
	require.NoError(t, err)
	digest := codec.SourceDigest(data).String()

	sr.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(s *model.Source) bool {
		return s.ID == digest && s.SchemaVersion == "2.6" && s.Size == len(data)
	})).Return(true, nil).Once()

	var saved []model.CatalogEntry
	cr.On("Upsert", mock.Anything, "alice", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]model.CatalogEntry) }).
		Return(nil).Once()

	res, err := svc.Import(context.Background(), "alice", data, "")
	require.NoError(t, err)
	assert.Equal(t, ImportResult{SourceID: digest, SchemaVersion: "2.6", Created: true, Entries: 2}, res)

	require.Len(t, saved, 2)
	web := saved[0]
	assert.Equal(t, "n-web", web.NodeID)
	assert.Equal(t, "Prod/web", web.Path)
	assert.Equal(t, "SSH2", web.Protocol)
	assert.Equal(t, 22, web.Port)
	assert.Equal(t, digest, web.SourceID)
	// унаследованное значение, секрет вычищен
	assert.Equal(t, "ops", web.Info.Username)
	assert.Empty(t, web.Info.Password)
	assert.Empty(t, saved[1].Info.Password)

	cr.AssertExpectations(t)
	sr.AssertExpectations(t)
}

func TestCatalogService_ImportDecodeError(t *testing.T) {
	svc, cr, sr := newTestService()

	_, err := svc.Import(context.Background(), "alice", []byte("<Connections"), "")
	assert.ErrorIs(t, err, connfile.ErrMalformedDocument)

	_, err = svc.Import(context.Background(), "alice", nil, "")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	cr.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	sr.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestCatalogService_ImportRepoErrors(t *testing.T) {
	data, err := connfiletest.SampleDocument("")
	require.NoError(t, err)

	t.Run("source", func(t *testing.T) {
		svc, _, sr := newTestService()
		sr.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(false, errors.New("db down")).Once()
		_, err := svc.Import(context.Background(), "alice", data, "")
		assert.ErrorContains(t, err, "save source")
	})

	t.Run("entries", func(t *testing.T) {
		svc, cr, sr := newTestService()
		sr.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(false, nil).Once()
		cr.On("Upsert", mock.Anything, "alice", mock.Anything).Return(errors.New("db down")).Once()
		_, err := svc.Import(context.Background(), "alice", data, "")
		assert.ErrorContains(t, err, "save catalog")
	})
}

func TestCatalogService_DecodeWithPassphrase(t *testing.T) {
	svc, _, _ := newTestService()
	data, err := connfiletest.SampleDocument("hunter2")
	require.NoError(t, err)

	_, err = svc.Decode(context.Background(), data, "")
	assert.ErrorIs(t, err, connfile.ErrAuthenticationFailed)

	doc, err := svc.Decode(context.Background(), data, "hunter2")
	require.NoError(t, err)
	assert.True(t, doc.PasswordProtected)
	assert.Equal(t, "prod-pw", doc.Root.Find("Prod/web").EffectiveString(model.FieldPassword))
}

func TestCatalogService_ListGet(t *testing.T) {
	svc, cr, _ := newTestService()
	cr.On("List", mock.Anything, "alice").Return([]model.CatalogEntry{{NodeID: "n1"}}, nil).Once()
	cr.On("GetByNodeID", mock.Anything, "alice", "nx").Return(nil, repo.ErrNotFound).Once()

	list, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(context.Background(), "alice", "nx")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
