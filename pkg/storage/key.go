package storage

import "fmt"

type FileKind string

const (
	PhotoFile FileKind = "photo"
	VoiceFile FileKind = "voice"
)

func (k FileKind) folder() string {
	if k == VoiceFile {
		return "audio"
	}
	return "photos"
}

func (k FileKind) Extension() string {
	if k == VoiceFile {
		return "ogg"
	}
	return "jpg"
}

func (k FileKind) ContentType() string {
	if k == VoiceFile {
		return "audio/ogg"
	}
	return "image/jpeg"
}

// ProofKey builds the object key for the index-th file of a proof:
// users/{user}/proofs/{proof}/{photos|audio}/{photo|voice}_{index}.{ext}
func ProofKey(userID, proofID string, index int, kind FileKind) string {
	return fmt.Sprintf("users/%s/proofs/%s/%s/%s_%d.%s",
		userID, proofID, kind.folder(), kind, index, kind.Extension())
}
