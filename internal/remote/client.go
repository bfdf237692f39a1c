package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const servicesRoot = "/studio/services/projects"

// Client exposes the designer's metadata calls as typed lookups.
// Every lookup returns ok=false when the document is missing or malformed.
type Client struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewClient wraps a fetcher. A nil logger uses slog.Default().
func NewClient(fetcher Fetcher, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{fetcher: fetcher, logger: logger}
}

// ProjectDetails fetches the project descriptor.
func (c *Client) ProjectDetails(ctx context.Context, projectID string) (*ProjectDetails, bool) {
	var out ProjectDetails
	if !c.getJSON(ctx, ProjectDetailsPath(projectID), &out) {
		return nil, false
	}
	return &out, true
}

// PageDocument fetches the markup and variables of a page or partial.
func (c *Client) PageDocument(ctx context.Context, projectID, page string) (*PageDocument, bool) {
	var out PageDocument
	if !c.getJSON(ctx, PageDocumentPath(projectID, page), &out) {
		return nil, false
	}
	return &out, true
}

// PrefabUsages fetches the prefabs declared on a page.
func (c *Client) PrefabUsages(ctx context.Context, projectID, page string) (*PrefabUsages, bool) {
	out := orderedmap.New[string, PrefabUsage]()
	if !c.getJSON(ctx, PrefabUsagesPath(projectID, page), out) {
		return nil, false
	}
	return out, true
}

// ServiceDefinitions fetches the operation schemas of a service.
func (c *Client) ServiceDefinitions(ctx context.Context, projectID, service string) (ServiceDefinitions, bool) {
	var out ServiceDefinitions
	if !c.getJSON(ctx, ServiceDefinitionsPath(projectID, service), &out) {
		return nil, false
	}
	return out, true
}

// ServiceTypes fetches the type schemas of a service.
func (c *Client) ServiceTypes(ctx context.Context, projectID, service string) (*TypeSchema, bool) {
	var out TypeSchema
	if !c.getJSON(ctx, ServiceTypesPath(projectID, service), &out) {
		return nil, false
	}
	return &out, true
}

// AppVariables fetches the project-level variable definitions.
func (c *Client) AppVariables(ctx context.Context, projectID string) (*Definitions, bool) {
	out := orderedmap.New[string, any]()
	if !c.getJSON(ctx, AppVariablesPath(projectID), out) {
		return nil, false
	}
	return out, true
}

// PrefabConfig fetches the configuration descriptor of a prefab project.
func (c *Client) PrefabConfig(ctx context.Context, projectID string) (*Contract, bool) {
	var out Contract
	if !c.getJSON(ctx, PrefabConfigPath(projectID), &out) {
		return nil, false
	}
	return &out, true
}

func (c *Client) getJSON(ctx context.Context, path string, out any) bool {
	body, ok := c.fetcher.Fetch(ctx, path)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("undecodable response", slog.String("path", path), slog.Any("error", err))
		return false
	}
	return true
}

// ProjectDetailsPath is the service path of the project descriptor.
func ProjectDetailsPath(projectID string) string {
	return fmt.Sprintf("%s/%s/details", servicesRoot, url.PathEscape(projectID))
}

// PageDocumentPath is the service path of a page document.
func PageDocumentPath(projectID, page string) string {
	return fmt.Sprintf("%s/%s/pages/%s/page.min.json", servicesRoot, url.PathEscape(projectID), url.PathEscape(page))
}

// PrefabUsagesPath is the service path of a page's prefab usages.
func PrefabUsagesPath(projectID, page string) string {
	return fmt.Sprintf("%s/%s/pages/%s/prefabs-data", servicesRoot, url.PathEscape(projectID), url.PathEscape(page))
}

// ServiceDefinitionsPath is the service path of a service's operation schemas.
func ServiceDefinitionsPath(projectID, service string) string {
	s := url.PathEscape(service)
	return fmt.Sprintf("%s/%s/resources/content/project/services/%s/src/servicedefs/%s-service-definitions.json",
		servicesRoot, url.PathEscape(projectID), s, s)
}

// ServiceTypesPath is the service path of a service's type schemas.
func ServiceTypesPath(projectID, service string) string {
	return fmt.Sprintf("%s/%s/services/%s/types", servicesRoot, url.PathEscape(projectID), url.PathEscape(service))
}

// AppVariablesPath is the service path of the project-level variables.
func AppVariablesPath(projectID string) string {
	return fmt.Sprintf("%s/%s/variables", servicesRoot, url.PathEscape(projectID))
}

// PrefabConfigPath is the service path of a prefab's configuration descriptor.
func PrefabConfigPath(projectID string) string {
	return fmt.Sprintf("%s/%s/resources/content/web/config.json", servicesRoot, url.PathEscape(projectID))
}
