package controllers

import (
	"net/http"
	"strconv"

	"myblog/app/forms"
	"myblog/app/middleware"
	"myblog/app/models"
	"myblog/app/services"
	"myblog/app/views"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	Base
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(base Base, postService *services.PostService) *PostController {
	return &PostController{Base: base, postService: postService}
}

// List shows published posts, newest first
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPublished()
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, newPostListJSON(posts))
		return
	}
	pc.render(w, r, http.StatusOK, "blog/post_list.html", views.Context{"posts": posts})
}

// Detail shows one post. Anonymous readers only see approved comments.
func (pc *PostController) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.pathID(w, r)
	if !ok {
		return
	}

	staff := middleware.CurrentUser(r.Context()) != nil
	post, err := pc.postService.GetPost(id, staff)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, newPostJSON(post))
		return
	}
	pc.render(w, r, http.StatusOK, "blog/post_detail.html", views.Context{
		"post":     post,
		"comments": post.Comments,
	})
}

// Create shows the empty post form on GET and stores a new draft on POST
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		form := forms.PostForm{}
		if user := middleware.CurrentUser(r.Context()); user != nil {
			form.Author = strconv.Itoa(user.ID)
		}
		pc.renderForm(w, r, nil, form, nil)
		return
	}

	if !pc.parseForm(w, r) {
		return
	}
	form := forms.NewPostForm(r.PostForm)
	post, err := pc.postService.CreatePost(form)
	if verr, ok := forms.AsValidationError(err); ok {
		pc.renderForm(w, r, nil, form, verr.Fields)
		return
	}
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	pc.log.Info("Post created", "id", post.ID, "author_id", post.AuthorID)
	pc.redirect(w, r, "post_detail", "pk", post.ID)
}

// Update shows the prefilled form on GET and saves the edit on POST
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.pathID(w, r)
	if !ok {
		return
	}

	post, err := pc.postService.GetPost(id, true)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		pc.renderForm(w, r, post, forms.PostFormFrom(post), nil)
		return
	}

	if !pc.parseForm(w, r) {
		return
	}
	form := forms.NewPostForm(r.PostForm)
	_, err = pc.postService.UpdatePost(id, form)
	if verr, ok := forms.AsValidationError(err); ok {
		pc.renderForm(w, r, post, form, verr.Fields)
		return
	}
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	pc.redirect(w, r, "post_detail", "pk", id)
}

// Delete asks for confirmation on GET and removes the post and its
// comments on POST
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.pathID(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		post, err := pc.postService.GetPost(id, true)
		if err != nil {
			pc.fail(w, r, err)
			return
		}
		pc.render(w, r, http.StatusOK, "blog/post_confirm_delete.html", views.Context{"post": post})
		return
	}

	if err := pc.postService.DeletePost(id); err != nil {
		pc.fail(w, r, err)
		return
	}

	pc.log.Info("Post deleted", "id", id)
	pc.redirect(w, r, "post_list")
}

// Drafts lists unpublished posts, oldest first
func (pc *PostController) Drafts(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListDrafts()
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, "blog/post_draft_list.html", views.Context{"posts": posts})
}

// Publish stamps the post's published date and returns to its page
func (pc *PostController) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.pathID(w, r)
	if !ok {
		return
	}

	if _, err := pc.postService.PublishPost(id); err != nil {
		pc.fail(w, r, err)
		return
	}

	pc.log.Info("Post published", "id", id)
	pc.redirect(w, r, "post_detail", "pk", id)
}

// APIList returns published posts as JSON
func (pc *PostController) APIList(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPublished()
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, newPostListJSON(posts))
}

// APIDetail returns one post with its approved comments as JSON
func (pc *PostController) APIDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.pathID(w, r)
	if !ok {
		return
	}

	post, err := pc.postService.GetPost(id, false)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, newPostJSON(post))
}

func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, post *models.Post, form forms.PostForm, errs forms.Errors) {
	authors, err := pc.postService.Authors()
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	if errs == nil {
		errs = forms.Errors{}
	}

	ctx := views.Context{
		"form":    form,
		"errors":  errs,
		"authors": authors,
	}
	if post != nil {
		ctx["post"] = post
	}
	pc.render(w, r, http.StatusOK, "blog/post_form.html", ctx)
}
