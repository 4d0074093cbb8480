package mark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeScenario(t *testing.T) {
	events := []Event{{0, 0}, {200, 1}, {150, 2}}
	words, err := Encode(events)
	require.NoError(t, err)
	assert.Equal(t, []uint16{6, 0, 0, 200, 1, 150, 2}, words)

	decoded, err := DecodeAll(TableWords(words))
	require.NoError(t, err)
	assert.Equal(t, events, decoded)
}

func TestLongDuration(t *testing.T) {
	words, err := Encode([]Event{{40000, 2}})
	require.NoError(t, err)
	assert.Equal(t, []uint16{3, 0x8000 | (40000 >> 16), 40000 & 0xffff, 2}, words)

	decoded, err := DecodeAll(words[1:])
	require.NoError(t, err)
	assert.Equal(t, []Event{{40000, 2}}, decoded)
}

func TestRoundTripBoundaries(t *testing.T) {
	events := []Event{
		{0, 0},
		{1, 12},
		{MaxShortDuration, 1},
		{MaxShortDuration + 1, 2},
		{0xffff, 13},
		{0x10000, 0},
		{EndOfTable - 1, 0xffff},
	}
	words, err := Encode(events)
	require.NoError(t, err)
	assert.Equal(t, 1+2+2+2+3+3+3+3, len(words))

	decoded, err := DecodeAll(TableWords(words))
	require.NoError(t, err)
	assert.Equal(t, events, decoded)
}

func TestEntryVariants(t *testing.T) {
	short, err := EntryFor(Event{Duration: MaxShortDuration, ID: 1})
	require.NoError(t, err)
	assert.IsType(t, Short{}, short)
	assert.Len(t, short.Words(), 2)
	assert.Zero(t, short.Words()[0]&0x8000)

	long, err := EntryFor(Event{Duration: MaxShortDuration + 1, ID: 1})
	require.NoError(t, err)
	assert.IsType(t, Long{}, long)
	assert.Len(t, long.Words(), 3)

	_, err = EntryFor(Event{Duration: EndOfTable})
	var rangeErr *ErrDurationRange
	assert.ErrorAs(t, err, &rangeErr)
}

func TestDecoderStopsAtEndOfTable(t *testing.T) {
	words := []uint16{100, 1, 0xffff, 0xffff, 0, 0, 0, 50, 2}
	d := NewDecoder(words)
	require.True(t, d.Next())
	assert.Equal(t, Event{100, 1}, d.Event())
	assert.False(t, d.Next())
	assert.NoError(t, d.Err())
	assert.False(t, d.Next())

	d.Reset()
	require.True(t, d.Next())
	assert.Equal(t, Short{Duration: 100, ID: 1}, d.Entry())
	assert.Equal(t, 2, d.Offset())
}

func TestDecoderTruncated(t *testing.T) {
	tests := []struct {
		name  string
		words []uint16
		want  int
	}{
		{"short entry without id", []uint16{10, 1, 20}, 2},
		{"long entry without low word", []uint16{0x8001}, 3},
		{"long entry without id", []uint16{0x8001, 0x2345}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAll(tt.words)
			var truncErr *ErrTruncatedEntry
			require.ErrorAs(t, err, &truncErr)
			assert.Equal(t, tt.want, truncErr.Want)
		})
	}
}

func TestPadding(t *testing.T) {
	events := []Event{{0, 0}, {200, 1}}

	words, err := Encode(events, WithPadding(12))
	require.NoError(t, err)
	assert.Len(t, words, 12)
	assert.Equal(t, uint16(11), words[0])
	assert.Equal(t, []uint16{0xffff, 0xffff, 0, 0, 0, 0, 0}, words[5:])

	decoded, err := DecodeAll(TableWords(words))
	require.NoError(t, err)
	assert.Equal(t, events, decoded)
}

func TestPaddingSingleSpareWord(t *testing.T) {
	events := []Event{{0, 0}, {200, 1}}
	words, err := Encode(events, WithPadding(6))
	require.NoError(t, err)
	assert.Equal(t, []uint16{5, 0, 0, 0x8000, 200, 1}, words)

	decoded, err := DecodeAll(TableWords(words))
	require.NoError(t, err)
	assert.Equal(t, events, decoded)
}

func TestPaddingOverflow(t *testing.T) {
	_, err := Encode([]Event{{0, 0}, {200, 1}}, WithPadding(4))
	var overflow *ErrTableOverflow
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 5, overflow.Need)
	assert.Equal(t, 4, overflow.Have)
}

func TestParseTableClampsLength(t *testing.T) {
	// length word claiming more words than present
	table := Bytes([]uint16{9, 10, 0, 20, 1})
	events, err := ParseTable(table)
	require.NoError(t, err)
	assert.Equal(t, []Event{{10, 0}, {20, 1}}, events)

	events, err = ParseTable(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseTableLengthCountsItself(t *testing.T) {
	// length word counts itself, the marker starts on the last counted word
	table := Bytes([]uint16{5, 100, 1, 200, 2, 0xffff, 0xffff, 0})
	events, err := ParseTable(table)
	require.NoError(t, err)
	assert.Equal(t, []Event{{100, 1}, {200, 2}}, events)

	// same events without padding
	events, err = ParseTable(Bytes([]uint16{5, 100, 1, 200, 2}))
	require.NoError(t, err)
	assert.Equal(t, []Event{{100, 1}, {200, 2}}, events)

	// the table written by Encode still decodes to the same events
	words, err := Encode([]Event{{100, 1}, {200, 2}}, WithPadding(8))
	require.NoError(t, err)
	events, err = ParseTable(Bytes(words))
	require.NoError(t, err)
	assert.Equal(t, []Event{{100, 1}, {200, 2}}, events)
}

func TestParseTableTruncatedPastEnd(t *testing.T) {
	// a long entry crossing the length boundary with no words left
	_, err := ParseTable(Bytes([]uint16{3, 100, 1, 0x8000}))
	var truncated *ErrTruncatedEntry
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, 2, truncated.Offset)
}

func TestEncodeLengthWordOverflow(t *testing.T) {
	events := make([]Event, MaxTableWords/2+1)
	_, err := Encode(events)
	var overflow *ErrTableOverflow
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, MaxTableWords+2, overflow.Need)
	assert.Equal(t, MaxTableWords+1, overflow.Have)

	words, err := Encode(events[:MaxTableWords/2])
	require.NoError(t, err)
	assert.Equal(t, uint16(MaxTableWords-1), words[0])
}

func TestBytesWords(t *testing.T) {
	b := Bytes([]uint16{0x1234, 0xffff})
	assert.Equal(t, []byte{0x34, 0x12, 0xff, 0xff}, b)
	assert.Equal(t, []uint16{0x1234, 0xffff}, Words(b))
}
