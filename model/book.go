package model //import "github.com/truyenhub/truyenhub/model"

const (
	BookTypeText  = "sách chữ"
	BookTypeComic = "truyện tranh"

	ProgressOngoing  = "đang cập nhật"
	ProgressComplete = "hoàn tất"
)

type Book struct {
	BookID         string   `json:"bookId"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	Translator     string   `json:"translator,omitempty"`
	Series         string   `json:"series,omitempty"`
	BookNum        string   `json:"bookNum,omitempty"`
	Type           string   `json:"type"`
	Cover          string   `json:"cover"`
	Description    string   `json:"description"`
	GenreList      []string `json:"genreList"`
	Language       string   `json:"language"`
	ProgressStatus string   `json:"progressStatus"`
	PublishDate    string   `json:"publishDate"`
	LastUpdateDate string   `json:"lastUpdateDate"`
	ReadCount      int      `json:"readCount"`
	TotalView      int      `json:"totalView"`
	TotalLike      int      `json:"totalLike"`
}

// HasGenre reports membership in the book's genre tag list.
func (b *Book) HasGenre(name string) bool {
	for _, g := range b.GenreList {
		if g == name {
			return true
		}
	}
	return false
}

type Chapter struct {
	ChapterID      string `json:"chapterId"`
	BookID         string `json:"bookId"`
	ChapterNum     int    `json:"chapterNum"`
	ChapterTitle   string `json:"chapterTitle,omitempty"`
	ChapterContent string `json:"chapterContent"`
	PublishDate    string `json:"publishDate"`
	LastUpdateDate string `json:"lastUpdateDate"`
}

type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
