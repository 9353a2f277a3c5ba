package docs

import (
	"context"

	"github.com/jomei/notionapi"
)

// NotionAPI is the subset of the Notion client the collector touches.
type NotionAPI interface {
	Search(ctx context.Context, req *notionapi.SearchRequest) (*notionapi.SearchResponse, error)
	GetPage(ctx context.Context, id notionapi.PageID) (*notionapi.Page, error)
	GetBlockChildren(ctx context.Context, id notionapi.BlockID, pagination *notionapi.Pagination) (*notionapi.GetChildrenResponse, error)
	QueryDatabase(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	GetComments(ctx context.Context, id notionapi.BlockID, pagination *notionapi.Pagination) (*notionapi.CommentQueryResponse, error)
}

// APIClient adapts *notionapi.Client to NotionAPI.
type APIClient struct {
	client *notionapi.Client
}

func NewAPIClient(client *notionapi.Client) *APIClient {
	return &APIClient{client: client}
}

func (a *APIClient) Search(ctx context.Context, req *notionapi.SearchRequest) (*notionapi.SearchResponse, error) {
	return a.client.Search.Do(ctx, req)
}

func (a *APIClient) GetPage(ctx context.Context, id notionapi.PageID) (*notionapi.Page, error) {
	return a.client.Page.Get(ctx, id)
}

func (a *APIClient) GetBlockChildren(
	ctx context.Context,
	id notionapi.BlockID,
	pagination *notionapi.Pagination,
) (*notionapi.GetChildrenResponse, error) {
	return a.client.Block.GetChildren(ctx, id, pagination)
}

func (a *APIClient) QueryDatabase(
	ctx context.Context,
	id notionapi.DatabaseID,
	req *notionapi.DatabaseQueryRequest,
) (*notionapi.DatabaseQueryResponse, error) {
	return a.client.Database.Query(ctx, id, req)
}

func (a *APIClient) GetComments(
	ctx context.Context,
	id notionapi.BlockID,
	pagination *notionapi.Pagination,
) (*notionapi.CommentQueryResponse, error) {
	return a.client.Comment.Get(ctx, id, pagination)
}
