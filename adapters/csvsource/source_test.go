package csvsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gocinema/internal/csvparse"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, location, file string) (string, error) {
	args := m.Called(ctx, location, file)
	return args.String(0), args.Error(1)
}

func TestReadTable(t *testing.T) {
	f := &mockFetcher{}
	f.On("Fetch", mock.Anything, "db", "data.csv").Return("a,b\n1,\n", nil)
	f.On("Fetch", mock.Anything, "db", "axis_order.csv").Return("", assert.AnError)

	s := New(f)
	rows, err := s.ReadTable(context.Background(), "db", "data")
	require.NoError(t, err)
	assert.Equal(t, [][]csvparse.Field{
		{csvparse.Present("a"), csvparse.Present("b")},
		{csvparse.Present("1"), csvparse.Absent()},
	}, rows)

	_, err = s.ReadTable(context.Background(), "db", "axis_order")
	assert.ErrorIs(t, err, assert.AnError)
	f.AssertExpectations(t)
}
