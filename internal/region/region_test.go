package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	r, err := Parse("서울특별시/노원구")
	require.NoError(t, err)
	assert.Equal(t, "11350", r.Code)

	r, err = Parse("41310")
	require.NoError(t, err)
	assert.Equal(t, "구리시", r.District)
	assert.Equal(t, "경기도", r.Province)

	_, err = Parse("서울특별시/없는구")
	assert.Error(t, err)

	_, err = Parse("nowhere")
	assert.Error(t, err)
}

func TestCodesAreUnique(t *testing.T) {
	seen := map[string]string{}
	for _, r := range All() {
		prev, dup := seen[r.Code]
		assert.False(t, dup, "code %s used by %s and %s", r.Code, prev, r.Label())
		assert.Len(t, r.Code, 5)
		seen[r.Code] = r.Label()
	}
}

func TestDistrictsReturnsCopy(t *testing.T) {
	ds := Districts("서울특별시")
	require.NotEmpty(t, ds)
	ds[0].Code = "00000"
	assert.NotEqual(t, "00000", Districts("서울특별시")[0].Code)
	assert.Nil(t, Districts("제주특별자치도"))
}
