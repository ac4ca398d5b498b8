// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remote

import (
	"context"
	"time"

	"github.com/walteh/tabmigrate/pkg/config"
)

// Connector opens authenticated sessions against a Tableau deployment (e.g. Tableau Server
// or Tableau Cloud).
type Connector interface {
	// SignIn authenticates with the profile's personal access token
	SignIn(ctx context.Context, profile config.Profile) (Session, error)
}

// Session is a signed-in handle on one site of a Tableau deployment.
type Session interface {
	// ListDataSources returns every data source on the site, all pages materialised
	ListDataSources(ctx context.Context) ([]DataSource, error)
	// DownloadDataSource writes the data source content, extract included, to
	// dstPrefix plus an extension chosen by the server. It returns the path written.
	DownloadDataSource(ctx context.Context, id string, dstPrefix string) (string, error)
	// ListProjects returns every project on the site
	ListProjects(ctx context.Context) ([]Project, error)
	// PublishDataSource uploads a data source file into a project
	PublishDataSource(ctx context.Context, req PublishRequest) (*DataSource, error)
	// SignOut invalidates the session token
	SignOut(ctx context.Context) error
}

// DataSource is a snapshot of a published data source.
type DataSource struct {
	ID          string
	Name        string
	UpdatedAt   *time.Time // nil when the server does not report it
	OwnerID     string
	ProjectID   string
	ProjectName string
	Type        string
	ContentURL  string
}

// UpdatedAtString formats UpdatedAt for display, "N/A" when unknown.
func (d DataSource) UpdatedAtString() string {
	if d.UpdatedAt == nil {
		return "N/A"
	}
	return d.UpdatedAt.Format(time.DateTime)
}

// Project is a folder on a site that scopes where content is published.
type Project struct {
	ID          string
	Name        string
	Description string
	ParentID    string
}

// PublishRequest describes one data source upload.
type PublishRequest struct {
	// Name the data source is published under
	Name string
	// ProjectID of the target project
	ProjectID string
	// FilePath of a .tds, .tdsx or .hyper file
	FilePath string
	// Overwrite replaces an existing data source with the same name
	Overwrite bool
}
