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

package tableau

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/walteh/tabmigrate/pkg/remote"
)

// 📝 Request and response bodies of the Tableau REST API. Responses carry the
// http://tableau.com/api namespace; unqualified tags match it.

type tsRequest struct {
	XMLName     xml.Name        `xml:"tsRequest"`
	Credentials *xmlCredentials `xml:"credentials,omitempty"`
	Datasource  *xmlDatasource  `xml:"datasource,omitempty"`
}

type tsResponse struct {
	XMLName     xml.Name        `xml:"tsResponse"`
	Error       *xmlError       `xml:"error"`
	Credentials *xmlCredentials `xml:"credentials"`
	ServerInfo  *xmlServerInfo  `xml:"serverInfo"`
	Pagination  *xmlPagination  `xml:"pagination"`
	Datasources []xmlDatasource `xml:"datasources>datasource"`
	Datasource  *xmlDatasource  `xml:"datasource"`
	Projects    []xmlProject    `xml:"projects>project"`
	FileUpload  *xmlFileUpload  `xml:"fileUpload"`
}

type xmlCredentials struct {
	Token     string  `xml:"token,attr,omitempty"`
	PATName   string  `xml:"personalAccessTokenName,attr,omitempty"`
	PATSecret string  `xml:"personalAccessTokenSecret,attr,omitempty"`
	Site      xmlSite `xml:"site"`
	User      *xmlRef `xml:"user,omitempty"`
}

type xmlSite struct {
	ID         string `xml:"id,attr,omitempty"`
	ContentURL string `xml:"contentUrl,attr"`
}

type xmlRef struct {
	ID   string `xml:"id,attr,omitempty"`
	Name string `xml:"name,attr,omitempty"`
}

type xmlServerInfo struct {
	ProductVersion string `xml:"productVersion"`
	RestAPIVersion string `xml:"restApiVersion"`
}

type xmlPagination struct {
	PageNumber     int `xml:"pageNumber,attr"`
	PageSize       int `xml:"pageSize,attr"`
	TotalAvailable int `xml:"totalAvailable,attr"`
}

type xmlDatasource struct {
	ID         string  `xml:"id,attr,omitempty"`
	Name       string  `xml:"name,attr,omitempty"`
	ContentURL string  `xml:"contentUrl,attr,omitempty"`
	Type       string  `xml:"type,attr,omitempty"`
	UpdatedAt  string  `xml:"updatedAt,attr,omitempty"`
	Project    *xmlRef `xml:"project,omitempty"`
	Owner      *xmlRef `xml:"owner,omitempty"`
}

type xmlProject struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name,attr"`
	Description string `xml:"description,attr,omitempty"`
	ParentID    string `xml:"parentProjectId,attr,omitempty"`
}

type xmlFileUpload struct {
	UploadSessionID string `xml:"uploadSessionId,attr"`
	FileSize        string `xml:"fileSize,attr,omitempty"`
}

type xmlError struct {
	Code    string `xml:"code,attr"`
	Summary string `xml:"summary"`
	Detail  string `xml:"detail"`
}

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	StatusCode int
	Code       string
	Summary    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("tableau api: http %d", e.StatusCode)
	}
	return fmt.Sprintf("tableau api: http %d: %s %s: %s", e.StatusCode, e.Code, e.Summary, e.Detail)
}

func (x xmlDatasource) toRemote() remote.DataSource {
	ds := remote.DataSource{
		ID:         x.ID,
		Name:       x.Name,
		ContentURL: x.ContentURL,
		Type:       x.Type,
	}
	if x.UpdatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, x.UpdatedAt); err == nil {
			ds.UpdatedAt = &ts
		}
	}
	if x.Project != nil {
		ds.ProjectID = x.Project.ID
		ds.ProjectName = x.Project.Name
	}
	if x.Owner != nil {
		ds.OwnerID = x.Owner.ID
	}
	return ds
}

func (x xmlProject) toRemote() remote.Project {
	return remote.Project{
		ID:          x.ID,
		Name:        x.Name,
		Description: x.Description,
		ParentID:    x.ParentID,
	}
}
