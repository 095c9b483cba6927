package controllers

import (
	"net/http"
	"strings"

	"github.com/careercompass/compass-web/internal/views"
	"github.com/gorilla/csrf"
)

// AuthController renders the login and register screens.
// Accounts are not implemented yet, so submissions are acknowledged and turned away.
type AuthController struct {
	templates AuthTemplates
}

// AuthTemplates holds the templates for the auth pages.
type AuthTemplates struct {
	Login    *views.Template
	Register *views.Template
}

func NewAuthController(templates AuthTemplates) *AuthController {
	return &AuthController{templates: templates}
}

// AuthFormData holds data for the shared auth form template.
type AuthFormData struct {
	Action    string
	Submit    string
	ShowName  bool
	Name      string
	Email     string
	AltPrompt string
	AltHref   string
	AltLabel  string
}

func loginForm(email string) AuthFormData {
	return AuthFormData{
		Action:    "/login",
		Submit:    "Sign in",
		Email:     email,
		AltPrompt: "Don't have an account?",
		AltHref:   "/register",
		AltLabel:  "Sign up",
	}
}

func registerForm(name, email string) AuthFormData {
	return AuthFormData{
		Action:    "/register",
		Submit:    "Create account",
		ShowName:  true,
		Name:      name,
		Email:     email,
		AltPrompt: "Already have an account?",
		AltHref:   "/login",
		AltLabel:  "Log in",
	}
}

func (ac *AuthController) GetLogin(w http.ResponseWriter, r *http.Request) {
	ac.templates.Login.ExecuteHTTP(w, r, &views.TemplateData{
		Title:     "Log in",
		CSRFField: csrf.TemplateField(r),
		Data:      loginForm(""),
	})
}

func (ac *AuthController) PostLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.renderLogin(w, r, "", "Invalid form data")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" || r.FormValue("password") == "" {
		ac.renderLogin(w, r, email, "Email and password are required")
		return
	}

	ac.renderLogin(w, r, email, "Sign-in is not available yet. You can still use Job Analysis without an account.")
}

func (ac *AuthController) GetRegister(w http.ResponseWriter, r *http.Request) {
	ac.templates.Register.ExecuteHTTP(w, r, &views.TemplateData{
		Title:     "Create your account",
		CSRFField: csrf.TemplateField(r),
		Data:      registerForm("", ""),
	})
}

func (ac *AuthController) PostRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.renderRegister(w, r, "", "", "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" || r.FormValue("password") == "" {
		ac.renderRegister(w, r, name, email, "Email and password are required")
		return
	}

	ac.renderRegister(w, r, name, email, "Registration is not available yet. You can still use Job Analysis without an account.")
}

func (ac *AuthController) renderLogin(w http.ResponseWriter, r *http.Request, email, msg string) {
	ac.templates.Login.ExecuteHTTPWithStatus(w, r, http.StatusUnprocessableEntity, &views.TemplateData{
		Title:     "Log in",
		CSRFField: csrf.TemplateField(r),
		Warning:   msg,
		Data:      loginForm(email),
	})
}

func (ac *AuthController) renderRegister(w http.ResponseWriter, r *http.Request, name, email, msg string) {
	ac.templates.Register.ExecuteHTTPWithStatus(w, r, http.StatusUnprocessableEntity, &views.TemplateData{
		Title:     "Create your account",
		CSRFField: csrf.TemplateField(r),
		Warning:   msg,
		Data:      registerForm(name, email),
	})
}
