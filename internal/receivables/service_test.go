package receivables

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concilia-dev/concilia/internal/model"
)

func loadTestdata(t *testing.T) *Service {
	t.Helper()
	f, err := os.Open("../../testdata/receivables.csv")
	require.NoError(t, err)
	defer f.Close()

	recs, err := ReadReceivables(f)
	require.NoError(t, err)
	return NewService(recs)
}

func TestLoadTestdata(t *testing.T) {
	svc := loadTestdata(t)
	require.Len(t, svc.All(), 4)

	r, ok := svc.Get("R-1001")
	require.True(t, ok)
	assert.Equal(t, "1234.56", r.Amount.StringFixed(2))
	assert.Equal(t, model.ReceivablePending, r.Status)
	assert.Equal(t, 2024, r.DueDate.Year())

	// R-1003 has no due date.
	r, ok = svc.Get("R-1003")
	require.True(t, ok)
	assert.True(t, r.DueDate.IsZero())
	assert.Equal(t, model.ReceivableOverdue, r.Status)
}

func TestOpen_ExcludesPaid(t *testing.T) {
	svc := loadTestdata(t)
	open := svc.Open()
	require.Len(t, open, 3)
	for _, r := range open {
		assert.NotEqual(t, model.ReceivablePaid, r.Status)
	}
}

func TestMarkPaid(t *testing.T) {
	svc := loadTestdata(t)
	err := svc.MarkPaid([]string{"R-1001", "R-1003"})
	require.NoError(t, err)

	r, _ := svc.Get("R-1001")
	assert.Equal(t, model.ReceivablePaid, r.Status)
	r, _ = svc.Get("R-1003")
	assert.Equal(t, model.ReceivablePaid, r.Status)
	assert.Len(t, svc.Open(), 1)
}

func TestMarkPaid_UnknownID(t *testing.T) {
	svc := loadTestdata(t)
	err := svc.MarkPaid([]string{"R-1001", "R-9999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R-9999")

	// Nothing was mutated.
	r, _ := svc.Get("R-1001")
	assert.Equal(t, model.ReceivablePending, r.Status)
}

func TestMarkPaid_AlreadyPaid(t *testing.T) {
	svc := loadTestdata(t)
	err := svc.MarkPaid([]string{"R-1004"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already")
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	svc := loadTestdata(t)
	require.NoError(t, svc.MarkPaid([]string{"R-1002"}))
	require.NoError(t, svc.Save(dir))

	reloaded, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, reloaded.All(), 4)

	r, ok := reloaded.Get("R-1002")
	require.True(t, ok)
	assert.Equal(t, model.ReceivablePaid, r.Status)

	// Amounts survive with two-decimal formatting intact.
	r, _ = reloaded.Get("R-1001")
	assert.True(t, r.Amount.Equal(r.Amount.Round(2)))
}

func TestLoad_MissingBook(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestReadReceivables_NegativeAmount(t *testing.T) {
	csv := Header + "\nR-1,desc,-10.00,,pending,,\n"
	_, err := ReadReceivables(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative amount")
}

func TestSave_EmptyBook(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewService(nil).Save(dir))

	data, err := os.ReadFile(filepath.Join(dir, BookPath))
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,description")
}
