package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one of the fixed cast categories a meme belongs to.
// CategoryAll is a filter selector only and is never stored on a record.
type Category string

const CategoryAll Category = "전체"

// Categories returns the storable categories, in display order.
func Categories() []Category {
	return []Category{"유재석", "박명수", "정형돈", "정준하", "하하", "노홍철", "길"}
}

// Valid reports whether c is a storable category (the sentinel is excluded).
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Emotion is one of the fixed emotion tags.
type Emotion string

// Emotions returns the full tag vocabulary, in display order.
func Emotions() []Emotion {
	return []Emotion{
		"웃김", "화남", "슬픔", "감동", "놀람", "당황", "사과", "현웃",
		"기쁨", "설렘", "부끄러움", "짜증", "놀림", "멘붕", "허탈", "기대",
		"실망", "자신감", "겸손", "도전", "승리", "패배", "질투", "의심",
		"확신", "고민", "결심", "무서움", "안도", "만족", "불만",
	}
}

// Valid reports whether e belongs to the tag vocabulary.
func (e Emotion) Valid() bool {
	for _, known := range Emotions() {
		if e == known {
			return true
		}
	}
	return false
}

// Meme is a single catalog entry. IsFavorite and IsSaved are derived from the
// device-local overlay at load time and are never authoritative server state.
type Meme struct {
	ID            string    `json:"id"`
	ImageURL      string    `json:"image_url"`
	Title         string    `json:"title"`
	Quote         string    `json:"quote"`
	Category      Category  `json:"category"`
	Tags          []Emotion `json:"tags"`
	Likes         int       `json:"likes"`
	IsFavorite    bool      `json:"is_favorite"`
	IsSaved       bool      `json:"is_saved"`
	OwnerID       string    `json:"user_id,omitempty"`
	OwnerNickname string    `json:"user_nickname,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// IsServerID reports whether id has the canonical UUID shape issued by the
// backend. Anything else belongs to the static fallback catalog. This is the
// sole signal used to decide whether a record may be mutated server-side.
func IsServerID(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	// uuid.Parse also accepts urn: and braced forms; only the plain 36-char
	// hyphenated form counts as a server id.
	return len(id) == 36 && parsed.String() == id
}

// Profile is the public profile row resolved for a meme owner.
type Profile struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// Role is the permission level attached to a user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// GuestbookEntry is a single guestbook message.
type GuestbookEntry struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
