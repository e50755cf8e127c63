package collab

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Docker-style name parts. Kept short; collisions across distinct ids are
// acceptable since the id itself stays the stable key.
var nameAdjectives = []string{
	"admiring", "brave", "clever", "dazzling", "eager", "focused", "gallant",
	"hopeful", "inspiring", "jolly", "keen", "lucid", "modest", "nifty",
	"optimistic", "peaceful", "quirky", "resolute", "serene", "tender",
	"upbeat", "vibrant", "wizardly", "xenodochial", "youthful", "zealous",
}

var nameSurnames = []string{
	"archimedes", "banach", "curie", "darwin", "euclid", "franklin", "galileo",
	"hopper", "hypatia", "kepler", "lovelace", "mendel", "noether", "pasteur",
	"ramanujan", "sagan", "turing", "volta", "wozniak", "yalow",
}

const avatarURLFormat = "https://api.dicebear.com/5.x/initials/svg?seed=%s"

// DisplayName derives a stable two-word name from an opaque participant id.
// The same id always maps to the same name.
func DisplayName(id string) string {
	sum := sha256.Sum256([]byte(id))
	adjective := nameAdjectives[binary.BigEndian.Uint32(sum[0:4])%uint32(len(nameAdjectives))]
	surname := nameSurnames[binary.BigEndian.Uint32(sum[4:8])%uint32(len(nameSurnames))]
	return adjective + "_" + surname
}

// AvatarURL returns the initials avatar for an id.
func AvatarURL(id string) string {
	return fmt.Sprintf(avatarURLFormat, id)
}
