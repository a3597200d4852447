package codec_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/formtree/codec"
)

func TestString_AdaptStripsByDefault(t *testing.T) {
	c := codec.NewString()

	v, err := c.Adapt("  abc ")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	v, err = c.Adapt(123)
	require.NoError(t, err)
	assert.Equal(t, "123", v)

	v, err = c.Adapt(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	raw := codec.String{}
	v, err = raw.Adapt("  abc ")
	require.NoError(t, err)
	assert.Equal(t, "  abc ", v)
}

func TestInteger_Adapt(t *testing.T) {
	c := codec.NewInteger()

	v, err := c.Adapt(" 123 ")
	require.NoError(t, err)
	assert.Equal(t, 123, v)

	v, err = c.Adapt(int64(-5))
	require.NoError(t, err)
	assert.Equal(t, -5, v)

	v, err = c.Adapt(3.7)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = c.Adapt("abc")
	assert.ErrorIs(t, err, codec.ErrAdapt)

	_, err = c.Adapt([]int{1})
	assert.ErrorIs(t, err, codec.ErrAdapt)
}

func TestInteger_Unsigned(t *testing.T) {
	c := codec.NewInteger()
	c.Signed = false

	_, err := c.Adapt("-1")
	assert.ErrorIs(t, err, codec.ErrAdapt)

	v, err := c.Adapt("0")
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestInteger_Long(t *testing.T) {
	c := codec.NewLong()

	v, err := c.Adapt("9000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(9000000000), v)
	assert.Equal(t, "9000000000", c.Serialize(v))
}

func TestInteger_SerializeFormat(t *testing.T) {
	c := codec.NewInteger()
	c.Format = "%02d"

	assert.Equal(t, "07", c.Serialize(7))
	// values of another type fall back to plain printing
	assert.Equal(t, "7.5", c.Serialize(7.5))
	assert.Equal(t, "", c.Serialize(nil))
}

func TestFloat_AdaptAndSerialize(t *testing.T) {
	c := codec.NewFloat()

	v, err := c.Adapt("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
	assert.Equal(t, "1.500000", c.Serialize(v))

	v, err = c.Adapt(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = c.Adapt("x1")
	assert.ErrorIs(t, err, codec.ErrAdapt)

	c.Signed = false
	_, err = c.Adapt(-0.5)
	assert.ErrorIs(t, err, codec.ErrAdapt)
}

func TestBoolean_Synonyms(t *testing.T) {
	c := codec.NewBoolean()

	for _, s := range []string{"on", "true", "True", "1"} {
		v, err := c.Adapt(s)
		require.NoError(t, err, s)
		assert.Equal(t, true, v, s)
	}
	for _, s := range []string{"off", "false", "False", "0", ""} {
		v, err := c.Adapt(s)
		require.NoError(t, err, s)
		assert.Equal(t, false, v, s)
	}

	_, err := c.Adapt("maybe")
	assert.ErrorIs(t, err, codec.ErrAdapt)

	v, err := c.Adapt(2)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = c.Adapt(0)
	require.NoError(t, err)
	assert.Equal(t, false, v)

	assert.Equal(t, "1", c.Serialize(true))
	assert.Equal(t, "", c.Serialize(false))
}

func TestBoolean_CustomTokens(t *testing.T) {
	c := codec.NewBoolean()
	c.True, c.False = "yes", "no"

	v, err := c.Adapt("yes")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = c.Adapt("no")
	require.NoError(t, err)
	assert.Equal(t, false, v)
	assert.Equal(t, "no", c.Serialize(false))
}

func TestTemporal_Date(t *testing.T) {
	c := codec.NewDate()

	v, err := c.Adapt(" 2021-03-04 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), v)
	assert.Equal(t, "2021-03-04", c.Serialize(v))

	_, err = c.Adapt("2021-3-4")
	assert.ErrorIs(t, err, codec.ErrAdapt)

	_, err = c.Adapt("2021-02-30")
	assert.ErrorIs(t, err, codec.ErrAdapt)

	v, err = c.Adapt(time.Date(2021, 3, 4, 10, 11, 12, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2021-03-04", c.Serialize(v))
}

func TestTemporal_TimeAndDateTime(t *testing.T) {
	tc := codec.NewTime()
	v, err := tc.Adapt("13:14:15")
	require.NoError(t, err)
	assert.Equal(t, "13:14:15", tc.Serialize(v))

	_, err = tc.Adapt("25:00:00")
	assert.ErrorIs(t, err, codec.ErrAdapt)

	dt := codec.NewDateTime()
	v, err = dt.Adapt("2020-01-02 03:04:05")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-02 03:04:05", dt.Serialize(v))

	dt.Strip = false
	_, err = dt.Adapt(" 2020-01-02 03:04:05")
	assert.ErrorIs(t, err, codec.ErrAdapt)
}

func TestUUID(t *testing.T) {
	c := codec.UUID{}
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	v, err := c.Adapt(" 6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err)
	assert.Equal(t, id, v)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", c.Serialize(v))

	_, err = c.Adapt("nope")
	assert.ErrorIs(t, err, codec.ErrAdapt)
}

func TestText(t *testing.T) {
	assert.Equal(t, "", codec.Text(nil))
	assert.Equal(t, "abc", codec.Text("abc"))
	assert.Equal(t, "12", codec.Text(12))
}
