package controllers

import (
	"net/http"

	"myblog/app/forms"
	"myblog/app/models"
	"myblog/app/services"
	"myblog/app/views"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	Base
	commentService *services.CommentService
	postService    *services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(base Base, commentService *services.CommentService, postService *services.PostService) *CommentController {
	return &CommentController{
		Base:           base,
		commentService: commentService,
		postService:    postService,
	}
}

// Add shows the comment form on GET and stores a pending comment on POST.
// Anyone may comment; the post comes from the URL, never the form.
func (cc *CommentController) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := cc.pathID(w, r)
	if !ok {
		return
	}

	post, err := cc.postService.GetPost(id, false)
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		cc.renderForm(w, r, post, forms.CommentForm{}, nil)
		return
	}

	if !cc.parseForm(w, r) {
		return
	}
	form := forms.NewCommentForm(r.PostForm)
	comment, err := cc.commentService.AddComment(id, form)
	if verr, ok := forms.AsValidationError(err); ok {
		cc.renderForm(w, r, post, form, verr.Fields)
		return
	}
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	cc.log.Info("Comment submitted", "id", comment.ID, "post_id", id)
	cc.redirect(w, r, "post_detail", "pk", id)
}

// Approve makes a comment public and returns to its post
func (cc *CommentController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := cc.pathID(w, r)
	if !ok {
		return
	}

	comment, err := cc.commentService.ApproveComment(id)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	cc.redirect(w, r, "post_detail", "pk", comment.PostID)
}

// Remove deletes a comment and returns to the post it was on
func (cc *CommentController) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := cc.pathID(w, r)
	if !ok {
		return
	}

	postID, err := cc.commentService.RemoveComment(id)
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	cc.log.Info("Comment removed", "id", id, "post_id", postID)
	cc.redirect(w, r, "post_detail", "pk", postID)
}

func (cc *CommentController) renderForm(w http.ResponseWriter, r *http.Request, post *models.Post, form forms.CommentForm, errs forms.Errors) {
	if errs == nil {
		errs = forms.Errors{}
	}
	cc.render(w, r, http.StatusOK, "blog/comment_form.html", views.Context{
		"post":   post,
		"form":   form,
		"errors": errs,
	})
}
