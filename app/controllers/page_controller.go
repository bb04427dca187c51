package controllers

import "net/http"

// PageController serves static pages
type PageController struct {
	Base
}

func NewPageController(base Base) *PageController {
	return &PageController{Base: base}
}

// About renders the about page
func (pc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, "about.html", nil)
}
