package docs

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

func rt(text string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: text}}
}

func TestBlockText(t *testing.T) {
	tests := []struct {
		name    string
		block   notionapi.Block
		want    string
		descend bool
	}{
		{
			name:  "paragraph",
			block: &notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: rt("본문 텍스트")}},
			want:  "본문 텍스트",
		},
		{
			name: "paragraph with children descends",
			block: &notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{HasChildren: true},
				Paragraph:  notionapi.Paragraph{RichText: rt("상위")},
			},
			want:    "상위",
			descend: true,
		},
		{
			name:  "heading",
			block: &notionapi.Heading2Block{Heading2: notionapi.Heading{RichText: rt("2분기 목표")}},
			want:  "2분기 목표",
		},
		{
			name:  "bulleted item",
			block: &notionapi.BulletedListItemBlock{BulletedListItem: notionapi.ListItem{RichText: rt("항목")}},
			want:  "• 항목",
		},
		{
			name:  "unchecked todo",
			block: &notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: rt("배포 확인")}},
			want:  "[ ] 배포 확인",
		},
		{
			name:  "checked todo",
			block: &notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: rt("리뷰 완료"), Checked: true}},
			want:  "[x] 리뷰 완료",
		},
		{
			name:  "quote",
			block: &notionapi.QuoteBlock{Quote: notionapi.Quote{RichText: rt("인용")}},
			want:  "인용",
		},
		{
			name:  "unknown block kind yields nothing",
			block: &notionapi.DividerBlock{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, descend := blockText(tt.block)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, tt.descend, descend)
		})
	}
}

func TestChildOf(t *testing.T) {
	page := &notionapi.ChildPageBlock{BasicBlock: notionapi.BasicBlock{ID: "p-child"}}
	page.ChildPage.Title = "하위 페이지"

	ref, ok := childOf(page)
	assert.True(t, ok)
	assert.Equal(t, childRef{ID: "p-child", Title: "하위 페이지", Kind: childPage}, ref)

	db := &notionapi.ChildDatabaseBlock{BasicBlock: notionapi.BasicBlock{ID: "db-1"}}
	db.ChildDatabase.Title = "스프린트 보드"

	ref, ok = childOf(db)
	assert.True(t, ok)
	assert.Equal(t, childDatabase, ref.Kind)

	_, ok = childOf(&notionapi.ParagraphBlock{})
	assert.False(t, ok)
}
