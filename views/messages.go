package views

import (
	"golang.org/x/text/language"
)

// Messages is the user-visible text for one language.
type Messages struct {
	Lang            string
	DateLayout      string
	InvalidDate     string
	AllTags         string
	SearchLabel     string
	SearchHint      string
	NoPosts         string
	BackToList      string
	ToDark          string
	ToLight         string
	IndexFailed     string
	MissingFile     string
	PostNotFound    string
	MarkdownFailed  string
	PageNotFound    string
	ServerError     string
	TooManyRequests string
}

var catalog = map[string]Messages{
	"en": {
		Lang:            "en",
		DateLayout:      "January 2, 2006",
		InvalidDate:     "Invalid Date",
		AllTags:         "All",
		SearchLabel:     "Search",
		SearchHint:      "Search posts...",
		NoPosts:         "No posts found.",
		BackToList:      "Back to posts",
		ToDark:          "Switch to dark mode",
		ToLight:         "Switch to light mode",
		IndexFailed:     "Something went wrong while loading the posts.",
		MissingFile:     "No post file was specified.",
		PostNotFound:    "The post could not be found.",
		MarkdownFailed:  "The post body could not be loaded.",
		PageNotFound:    "Page not found.",
		ServerError:     "Something went wrong.",
		TooManyRequests: "Too many searches. Try again in a moment.",
	},
	"ko": {
		Lang:            "ko",
		DateLayout:      "2006년 1월 2일",
		InvalidDate:     "Invalid Date",
		AllTags:         "전체",
		SearchLabel:     "검색",
		SearchHint:      "게시글 검색...",
		NoPosts:         "게시글이 없습니다.",
		BackToList:      "목록으로",
		ToDark:          "다크 모드로 전환",
		ToLight:         "라이트 모드로 전환",
		IndexFailed:     "게시글을 불러오는 중 오류가 발생했습니다.",
		MissingFile:     "게시글 파일이 지정되지 않았습니다.",
		PostNotFound:    "게시글 정보를 찾을 수 없습니다.",
		MarkdownFailed:  "마크다운 파일을 불러올 수 없습니다.",
		PageNotFound:    "페이지를 찾을 수 없습니다.",
		ServerError:     "오류가 발생했습니다.",
		TooManyRequests: "검색 요청이 너무 많습니다. 잠시 후 다시 시도하세요.",
	},
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Korean})

// MessagesFor returns the catalog entry best matching lang, which may be a
// BCP 47 tag or an Accept-Language value. English is the fallback.
func MessagesFor(lang string) Messages {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	if m, ok := catalog[base.String()]; ok {
		return m
	}
	return catalog["en"]
}
