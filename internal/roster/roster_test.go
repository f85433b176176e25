package roster

import (
	"os"
	"path/filepath"
	"testing"

	"eventmgr/internal/lib/logger/handlers/slogdiscard"
	"eventmgr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"attendees.csv", "attendees.xlsx"} {
		f := New(slogdiscard.NewDiscardLogger(), filepath.Join(t.TempDir(), name))

		got, err := f.Load()
		require.NoError(t, err)
		assert.Empty(t, got, name)
	}
}

func TestAddAndLoad(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"attendees.csv", "attendees.xlsx"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := New(slogdiscard.NewDiscardLogger(), filepath.Join(t.TempDir(), name))

			_, err := f.Add(models.Attendee{Name: "Ada Lovelace", Email: "Ada@example.com"})
			require.NoError(t, err)
			_, err = f.Add(models.Attendee{Email: "bob@example.com"})
			require.NoError(t, err)

			_, err = f.Add(models.Attendee{Name: "Dup", Email: "ADA@example.com"})
			assert.ErrorIs(t, err, ErrDuplicate)

			_, err = f.Add(models.Attendee{Name: "Broken", Email: "broken"})
			assert.ErrorIs(t, err, models.ErrValidation)

			got, err := f.Load()
			require.NoError(t, err)
			assert.Equal(t, []models.Attendee{
				{Name: "Ada Lovelace", Email: "ada@example.com"},
				{Email: "bob@example.com"},
			}, got)

			removed, err := f.Remove("bob@example.com")
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = f.Remove("nobody@example.com")
			require.NoError(t, err)
			assert.False(t, removed)

			got, err = f.Load()
			require.NoError(t, err)
			assert.Equal(t, []models.Attendee{{Name: "Ada Lovelace", Email: "ada@example.com"}}, got)
		})
	}
}

func TestLoadCSVVariants(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		want    []models.Attendee
	}{
		{
			name:    "Email only header",
			content: "Email\nada@example.com\n\nbob@example.com\n",
			want:    []models.Attendee{{Email: "ada@example.com"}, {Email: "bob@example.com"}},
		},
		{
			name:    "Swapped columns",
			content: "Email,Name\nada@example.com,Ada\n",
			want:    []models.Attendee{{Name: "Ada", Email: "ada@example.com"}},
		},
		{
			name:    "No header",
			content: "ada@example.com\n",
			want:    []models.Attendee{{Email: "ada@example.com"}},
		},
		{
			name:    "Invalid and duplicate rows skipped",
			content: "Name,Email\nA,ada@example.com\nB,nope\nC,ADA@example.com\nD,\n",
			want:    []models.Attendee{{Name: "A", Email: "ada@example.com"}},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "attendees.csv")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			got, err := New(slogdiscard.NewDiscardLogger(), path).Load()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadSpreadsheetWithEmailColumnOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "attendees.xlsx")

	book := excelize.NewFile()
	require.NoError(t, book.SetCellValue("Sheet1", "A1", "Email"))
	require.NoError(t, book.SetCellValue("Sheet1", "A2", "ada@example.com"))
	require.NoError(t, book.SetCellValue("Sheet1", "A3", "bob@example.com"))
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	got, err := New(slogdiscard.NewDiscardLogger(), path).Load()
	require.NoError(t, err)
	assert.Equal(t, []models.Attendee{{Email: "ada@example.com"}, {Email: "bob@example.com"}}, got)
}

func TestSaveWritesHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "attendees.csv")
	f := New(slogdiscard.NewDiscardLogger(), path)

	require.NoError(t, f.Save([]models.Attendee{{Name: "Ada", Email: "ada@example.com"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Email\nAda,ada@example.com\n", string(data))
}
