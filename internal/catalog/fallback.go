package catalog

import "github.com/jjalhub/jjal-cli/internal/models"

// FallbackCatalog returns the build-time meme set shown when the backend is
// unreachable, unconfigured or empty. Ids deliberately do not have the UUID
// shape, which is what routes their deletion to the local hide list instead
// of the backend.
func FallbackCatalog() []models.Meme {
	return []models.Meme{
		{
			ID:       "jjal-001",
			ImageURL: "https://static.jjalhub.net/catalog/mudo-yjs-laugh.jpg",
			Title:    "유느님의 폭소",
			Quote:    "아니 이게 무슨 일이야~",
			Category: "유재석",
			Tags:     []models.Emotion{"웃김", "현웃"},
			Likes:    1204,
		},
		{
			ID:       "jjal-002",
			ImageURL: "https://static.jjalhub.net/catalog/mudo-pms-angry.jpg",
			Title:    "호통 명수옹",
			Quote:    "야! 안 되는 건 안 되는 거야!",
			Category: "박명수",
			Tags:     []models.Emotion{"화남", "짜증"},
			Likes:    987,
		},
		{
			ID:       "jjal-003",
			ImageURL: "https://static.jjalhub.net/catalog/mudo-jjh-shy.jpg",
			Title:    "수줍은 중년",
			Quote:    "아... 이런 거 처음이라...",
			Category: "정준하",
			Tags:     []models.Emotion{"부끄러움", "당황"},
			Likes:    645,
		},
		{
			ID:       "jjal-004",
			ImageURL: "https://static.jjalhub.net/catalog/mudo-haha-proud.jpg",
			Title:    "하하의 자신감",
			Quote:    "난 꼬마가 아니야!",
			Category: "하하",
			Tags:     []models.Emotion{"자신감", "도전"},
			Likes:    512,
		},
		{
			ID:       "jjal-005",
			ImageURL: "https://static.jjalhub.net/catalog/mudo-nhc-scheme.jpg",
			Title:    "사기꾼의 미소",
			Quote:    "형, 나만 믿어. 진짜로.",
			Category: "노홍철",
			Tags:     []models.Emotion{"의심", "놀림"},
			Likes:    876,
		},
		{
			ID:       "jjal-006",
			ImageURL: "https://static.jjalhub.net/catalog/mudo-jhd-calm.jpg",
			Title:    "미존개오",
			Quote:    "어차피 난 미친 존재감이야.",
			Category: "정형돈",
			Tags:     []models.Emotion{"확신", "만족"},
			Likes:    433,
		},
		{
			ID:       "jjal-007",
			ImageURL: "https://static.jjalhub.net/catalog/mudo-gil-defeat.jpg",
			Title:    "길의 허탈",
			Quote:    "아... 네... 그렇군요...",
			Category: "길",
			Tags:     []models.Emotion{"허탈", "패배"},
			Likes:    298,
		},
		{
			ID:       "jjal-008",
			ImageURL: "https://static.jjalhub.net/catalog/mudo-yjs-sorry.jpg",
			Title:    "사과는 유재석처럼",
			Quote:    "미안하다, 정말 미안해.",
			Category: "유재석",
			Tags:     []models.Emotion{"사과", "슬픔"},
			Likes:    721,
		},
	}
}
