package embres

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/maja42/embres/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachments(t *testing.T) {
	var testAttachments = [][]byte{
		[]byte("att1"),
		[]byte("2"),
		{},
		{0, 1, 2, 3},
	}

	var testTOC = internal.TOC{
		internal.Attachment{
			Name: "att1",
			Size: int64(len(testAttachments[0])),
		},
		internal.Attachment{
			Name: "num2",
			Size: int64(len(testAttachments[1])),
		},
		internal.Attachment{
			Name: "3",
			Size: int64(len(testAttachments[2])),
		},
		internal.Attachment{
			Name: "four",
			Size: int64(len(testAttachments[3])),
		},
	}

	path := prepareFile(t, testTOC, testAttachments)

	att, err := OpenExe(path)
	require.NoError(t, err)

	assert.Len(t, att.offsets, len(testTOC))
	assert.Len(t, att.sizes, len(testTOC))

	t.Run("List()", func(t *testing.T) {
		assert.Equal(t, []string{"att1", "num2", "3", "four"}, att.List())
	})

	t.Run("Count()", func(t *testing.T) {
		assert.Equal(t, len(testTOC), att.Count())
	})

	t.Run("Reader(): success", func(t *testing.T) {
		for i, a := range testTOC {
			r := att.Reader(a.Name)
			require.NotNil(t, r)
			assert.Equal(t, a.Size, r.Size())

			data, err := io.ReadAll(r)
			assert.NoError(t, err)
			assert.Equal(t, string(testAttachments[i]), string(data))
		}
	})

	t.Run("Reader(): non-existing file", func(t *testing.T) {
		assert.Nil(t, att.Reader("unknown"))
	})

	t.Run("Open()", func(t *testing.T) {
		s, err := att.Open("four")
		require.NoError(t, err)
		require.NotNil(t, s)
		defer s.Close()

		r, ok := s.(Reader)
		require.True(t, ok)
		assert.Equal(t, int64(4), r.Size())

		data, err := io.ReadAll(s)
		assert.NoError(t, err)
		assert.Equal(t, testAttachments[3], data)
	})

	t.Run("Open(): non-existing file", func(t *testing.T) {
		s, err := att.Open("unknown")
		assert.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("StreamAt()", func(t *testing.T) {
		s, err := StreamAt(1, att)
		require.NoError(t, err)
		defer s.Close()

		data, err := io.ReadAll(s)
		assert.NoError(t, err)
		assert.Equal(t, "2", string(data))
	})

	t.Run("Size() and Offset()", func(t *testing.T) {
		assert.Equal(t, int64(4), att.Size("att1"))
		assert.Zero(t, att.Size("unknown"))
		assert.Equal(t, att.Offset("att1")+4, att.Offset("num2"))
		assert.Zero(t, att.Offset("unknown"))
	})

	t.Run("Close()", func(t *testing.T) {
		assert.NoError(t, att.Close())
	})
}

func prepareFile(t *testing.T, toc internal.TOC, attachments [][]byte) string {
	file, err := os.CreateTemp(t.TempDir(), "exe")
	require.NoError(t, err)
	defer file.Close()

	// write random data (=represents executable)
	random := make([]byte, 100)
	_, err = rand.Read(random)
	require.NoError(t, err)
	_, err = file.Write(random)
	require.NoError(t, err)

	require.NoError(t, internal.WriteBoundary(file))

	jsonTOC, err := json.Marshal(toc)
	require.NoError(t, err)
	_, err = file.Write(jsonTOC)
	require.NoError(t, err)

	require.NoError(t, internal.WriteBoundary(file))

	for _, attachment := range attachments {
		_, err = file.Write(attachment)
		require.NoError(t, err)
	}

	require.NoError(t, internal.WriteBoundary(file))

	// write random data (=represents trailing data)
	_, err = rand.Read(random)
	require.NoError(t, err)
	_, err = file.Write(random)
	require.NoError(t, err)

	return file.Name()
}

func TestAttachments_NoAttachments(t *testing.T) {
	// Open the test executable, which should definitely not contain any attachments.
	att, err := Open()
	require.NoError(t, err)

	assert.Nil(t, att.List())
	assert.Zero(t, att.Count())

	s, err := att.Open("anything")
	assert.NoError(t, err)
	assert.Nil(t, s)

	assert.Nil(t, att.Close())
}

func TestOpenExe_NoSuchFile(t *testing.T) {
	att, err := OpenExe("./:this file does not exist!")
	assert.Error(t, err)
	_, ok := err.(*os.PathError)
	assert.True(t, ok)
	assert.Nil(t, att)
}

func writeCorruptFile(t *testing.T, parts ...[]byte) string {
	file, err := os.CreateTemp(t.TempDir(), "exe")
	require.NoError(t, err)
	defer file.Close()

	for _, p := range parts {
		if p == nil {
			require.NoError(t, internal.WriteBoundary(file))
			continue
		}
		_, err := file.Write(p)
		require.NoError(t, err)
	}
	return file.Name()
}

func TestOpenExe_SecondBoundaryMissing(t *testing.T) {
	path := writeCorruptFile(t, []byte("executable"), nil)

	att, err := OpenExe(path)
	assert.EqualError(t, err, "corrupt attachment data (incomplete TOC)")
	assert.Nil(t, att)
}

func TestOpenExe_BrokenTOC(t *testing.T) {
	path := writeCorruptFile(t, []byte("executable"), nil, []byte("{definitely not json}"), nil)

	att, err := OpenExe(path)
	assert.EqualError(t, err, "corrupt attachment data (invalid TOC)")
	assert.Nil(t, att)

	var attErr *AttErr
	assert.ErrorAs(t, err, &attErr)
}

func TestOpenExe_offsetsTooBig(t *testing.T) {
	var testAttachments = [][]byte{{1, 2, 3}}

	var testTOC = internal.TOC{
		internal.Attachment{
			Name: "att1",
			Size: 9000,
		},
	}

	path := prepareFile(t, testTOC, testAttachments)

	att, err := OpenExe(path)
	assert.EqualError(t, err, "corrupt attachment data (offsets too large)")
	assert.Nil(t, att)
}

func TestOpenExe_invalidOffsets(t *testing.T) {
	var testAttachments = [][]byte{{1, 2, 3}}

	var testTOC = internal.TOC{
		internal.Attachment{
			Name: "att1",
			Size: 2, // one byte less than expected
		},
	}

	path := prepareFile(t, testTOC, testAttachments)

	att, err := OpenExe(path)
	assert.EqualError(t, err, "corrupt attachment data (invalid offsets)")
	assert.Nil(t, att)
}
