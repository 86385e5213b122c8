// Package template declares the template engine seam used to render form
// reports. The gotemplate subpackage provides a pongo2-backed engine.
package template
