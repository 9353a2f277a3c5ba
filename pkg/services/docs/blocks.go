package docs

import (
	"strings"

	"github.com/jomei/notionapi"
)

type childKind int

const (
	childPage childKind = iota
	childDatabase
)

// childRef is a child page or database discovered while reading a page's
// blocks. The block ID doubles as the child's object ID.
type childRef struct {
	ID    string
	Title string
	Kind  childKind
}

// blockText extracts the plain text of a single block. The bool reports
// whether the block's children belong to the page body and should be
// descended into; child pages and databases are surfaced through childRef
// instead.
func blockText(block notionapi.Block) (string, bool) {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return richTextPlain(b.Paragraph.RichText), b.HasChildren
	case *notionapi.Heading1Block:
		return richTextPlain(b.Heading1.RichText), false
	case *notionapi.Heading2Block:
		return richTextPlain(b.Heading2.RichText), false
	case *notionapi.Heading3Block:
		return richTextPlain(b.Heading3.RichText), false
	case *notionapi.BulletedListItemBlock:
		return "• " + richTextPlain(b.BulletedListItem.RichText), b.HasChildren
	case *notionapi.NumberedListItemBlock:
		return "• " + richTextPlain(b.NumberedListItem.RichText), b.HasChildren
	case *notionapi.ToDoBlock:
		box := "[ ]"
		if b.ToDo.Checked {
			box = "[x]"
		}
		return box + " " + richTextPlain(b.ToDo.RichText), b.HasChildren
	case *notionapi.ToggleBlock:
		return richTextPlain(b.Toggle.RichText), b.HasChildren
	case *notionapi.QuoteBlock:
		return richTextPlain(b.Quote.RichText), b.HasChildren
	case *notionapi.CalloutBlock:
		return richTextPlain(b.Callout.RichText), b.HasChildren
	case *notionapi.CodeBlock:
		return richTextPlain(b.Code.RichText), false
	default:
		return "", false
	}
}

// childOf reports whether a block is a child page or child database.
func childOf(block notionapi.Block) (childRef, bool) {
	switch b := block.(type) {
	case *notionapi.ChildPageBlock:
		return childRef{ID: string(b.ID), Title: b.ChildPage.Title, Kind: childPage}, true
	case *notionapi.ChildDatabaseBlock:
		return childRef{ID: string(b.ID), Title: b.ChildDatabase.Title, Kind: childDatabase}, true
	default:
		return childRef{}, false
	}
}

func richTextPlain(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, t := range rt {
		b.WriteString(t.PlainText)
	}
	return b.String()
}
