package photo

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threePhotos(flags [3]bool) []*Photo {
	photos := make([]*Photo, 3)
	for i := range photos {
		photos[i] = &Photo{ID: uuid.New(), SortOrder: i, IsProfilePicture: flags[i]}
	}
	return photos
}

func TestEnsureSingleProfilePicture_Empty(t *testing.T) {
	assert.Empty(t, EnsureSingleProfilePicture(nil))
}

func TestEnsureSingleProfilePicture_PromotesFirstWhenNoneFlagged(t *testing.T) {
	photos := threePhotos([3]bool{})
	healed := EnsureSingleProfilePicture(photos)

	assert.True(t, healed[0].IsProfilePicture)
	assert.Equal(t, 1, countFlagged(healed))
	assert.Equal(t, 0, countFlagged(photos), "input must not be mutated")
}

func TestEnsureSingleProfilePicture_KeepsFirstFlagged(t *testing.T) {
	photos := threePhotos([3]bool{false, true, true})
	healed := EnsureSingleProfilePicture(photos)

	assert.Equal(t, photos[1].ID, ProfilePicture(healed).ID)
	assert.Equal(t, 1, countFlagged(healed))
}

func TestWithout_AnyThreePhotoConfiguration(t *testing.T) {
	// Every flag combination, deleting each position in turn.
	for mask := 0; mask < 8; mask++ {
		flags := [3]bool{mask&1 != 0, mask&2 != 0, mask&4 != 0}
		for del := 0; del < 3; del++ {
			t.Run(fmt.Sprintf("flags=%v/delete=%d", flags, del), func(t *testing.T) {
				photos := EnsureSingleProfilePicture(threePhotos(flags))
				wasPicture := photos[del].IsProfilePicture

				rest := Without(photos, photos[del].ID)

				require.Len(t, rest, 2)
				assert.Equal(t, 1, countFlagged(rest))
				if wasPicture {
					assert.True(t, rest[0].IsProfilePicture, "first remaining photo is promoted")
				}
			})
		}
	}
}

func TestWithout_LastPhoto(t *testing.T) {
	p := &Photo{ID: uuid.New(), IsProfilePicture: true}
	assert.Empty(t, Without([]*Photo{p}, p.ID))
}
