package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umlkit/goxmi/uml"
)

var (
	errNotFound   = errors.New("not found")
	errBadRequest = errors.New("bad request")
)

// documentSummary is one entry of the document listing.
type documentSummary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Source  string    `json:"source,omitempty"`
	Dialect string    `json:"dialect,omitempty"`
	Stats   uml.Stats `json:"stats"`
}

// packageSummary flattens a package without its contents.
type packageSummary struct {
	XMIID       string   `json:"xmi_id"`
	Name        string   `json:"name"`
	ParentXMIID string   `json:"parent_xmi_id,omitempty"`
	Definition  string   `json:"definition,omitempty"`
	Classes     []string `json:"classes"`
	Enums       []string `json:"enums"`
}

// classEntry is a class together with the package that owns it.
type classEntry struct {
	Package string `json:"package"`
	*uml.Class
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDocuments(c *gin.Context) {
	out := []documentSummary{}
	for _, id := range s.IDs() {
		doc, ok := s.document(id)
		if !ok {
			continue
		}
		out = append(out, documentSummary{
			ID:      id,
			Name:    doc.Name,
			Source:  doc.Source,
			Dialect: doc.Dialect,
			Stats:   doc.Stats(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDocument(c *gin.Context) {
	doc, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handlePackages(c *gin.Context) {
	doc, ok := s.lookup(c)
	if !ok {
		return
	}
	out := []packageSummary{}
	var walk func(p *uml.Package, parent string)
	walk = func(p *uml.Package, parent string) {
		sum := packageSummary{
			XMIID:       p.XMIID,
			Name:        p.Name,
			ParentXMIID: parent,
			Definition:  p.Definition,
			Classes:     []string{},
			Enums:       []string{},
		}
		for _, cl := range p.Classes {
			sum.Classes = append(sum.Classes, cl.Name)
		}
		for _, cl := range p.DataTypes {
			sum.Classes = append(sum.Classes, cl.Name)
		}
		for _, e := range p.Enums {
			sum.Enums = append(sum.Enums, e.Name)
		}
		out = append(out, sum)
		for i := range p.Packages {
			walk(&p.Packages[i], p.XMIID)
		}
	}
	for i := range doc.Packages {
		walk(&doc.Packages[i], "")
	}
	c.JSON(http.StatusOK, out)
}

// handleClasses lists classes, optionally filtered by exact name and by
// owning package name.
func (s *Server) handleClasses(c *gin.Context) {
	doc, ok := s.lookup(c)
	if !ok {
		return
	}
	name := c.Query("name")
	pkgName := c.Query("package")

	out := []classEntry{}
	for p := range doc.AllPackages() {
		if pkgName != "" && p.Name != pkgName {
			continue
		}
		for _, list := range [][]uml.Class{p.Classes, p.DataTypes} {
			for i := range list {
				if name != "" && list[i].Name != name {
					continue
				}
				out = append(out, classEntry{Package: p.Name, Class: &list[i]})
			}
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleClass(c *gin.Context) {
	doc, ok := s.lookup(c)
	if !ok {
		return
	}
	id := c.Param("id")
	cl := doc.ClassByID(id)
	if cl == nil {
		handleError(c, fmt.Errorf("class %q: %w", id, errNotFound))
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (s *Server) handleEnums(c *gin.Context) {
	doc, ok := s.lookup(c)
	if !ok {
		return
	}
	out := []*uml.Enum{}
	for e := range doc.AllEnums() {
		out = append(out, e)
	}
	c.JSON(http.StatusOK, out)
}

// handleDiagnostics lists diagnostics, keeping only those at or above the
// optional ?severity= threshold.
func (s *Server) handleDiagnostics(c *gin.Context) {
	doc, ok := s.lookup(c)
	if !ok {
		return
	}
	limit := uml.SeverityInfo
	if q := c.Query("severity"); q != "" {
		sev, err := uml.ParseSeverity(q)
		if err != nil {
			handleError(c, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
		limit = sev
	}
	out := []uml.Diagnostic{}
	for _, d := range doc.Diagnostics {
		if d.Severity <= limit {
			out = append(out, d)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) lookup(c *gin.Context) (*uml.Document, bool) {
	id := c.Param("doc")
	doc, ok := s.document(id)
	if !ok {
		handleError(c, fmt.Errorf("document %q: %w", id, errNotFound))
		return nil, false
	}
	return doc, true
}

func handleError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		code = http.StatusBadRequest
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
