package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeEscaperNeutralizesWildcards(t *testing.T) {
	assert.Equal(t, "1Z999AA10123456784", likeEscaper.Replace("1Z999AA10123456784"))
	assert.Equal(t, `TRACK\%1`, likeEscaper.Replace("TRACK%1"))
	assert.Equal(t, `TRACK\_1`, likeEscaper.Replace("TRACK_1"))
	assert.Equal(t, `A\\B\%\_`, likeEscaper.Replace(`A\B%_`))
}
