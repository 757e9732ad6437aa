// Package domain defines the transient copies of entities owned by the
// remote user, course, module and post services, plus the enrollment and
// engagement values computed from them. The JSON tags follow the services'
// wire contract; nothing here is authoritative.
package domain

import (
	"slices"
	"time"
)

// User is the user service's view of an account.
//
// Fields:
//   - RecordID: numeric primary key ("id").
//   - BusinessID: service-local user id ("user_id"); the value course and
//     module services store in their member lists.
//   - EnrolledModules: module codes (or record ids, depending on which
//     service wrote them) mirrored onto the user record.
//   - CourseID: optional course code mirrored onto the user record.
type User struct {
	RecordID        RecordID   `json:"id"`
	BusinessID      BusinessID `json:"user_id"`
	Name            string     `json:"name,omitempty"`
	Username        string     `json:"username,omitempty"`
	Email           string     `json:"email,omitempty"`
	Year            int        `json:"year,omitempty"`
	IsAdmin         bool       `json:"is_admin"`
	EnrolledModules []string   `json:"enrolled_modules"`
	CourseID        *string    `json:"course_id"`
}

// DisplayName picks the most human-friendly name the record carries.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	}
	return "User " + u.RecordID.String()
}

// Course is the course service's record. EnrolledUsers holds user
// BusinessIDs and is not transactionally linked to User.CourseID.
type Course struct {
	RecordID      RecordID     `json:"id"`
	Code          BusinessID   `json:"course_id"`
	Name          string       `json:"course_name"`
	Description   string       `json:"description"`
	EnrolledUsers []BusinessID `json:"enrolled_users"`
}

// HasMember reports whether the course-side member list contains uid.
func (c Course) HasMember(uid BusinessID) bool {
	return uid != "" && slices.Contains(c.EnrolledUsers, uid)
}

// Module is the module service's record. ParentCourse is the owning course
// code. EnrolledUsers duplicates User.EnrolledModules from the other side.
type Module struct {
	RecordID      RecordID     `json:"id"`
	Code          ModuleCode   `json:"id_module"`
	Name          string       `json:"name"`
	ParentCourse  BusinessID   `json:"course_id"`
	EnrolledUsers []BusinessID `json:"enrolled_users"`
}

// HasMember reports whether the module-side member list contains uid.
func (m Module) HasMember(uid BusinessID) bool {
	return uid != "" && slices.Contains(m.EnrolledUsers, uid)
}

// Post is a post owned by the post service. Author is the user RecordID.
type Post struct {
	RecordID   RecordID `json:"id"`
	Title      string   `json:"post_title"`
	Content    string   `json:"content"`
	Author     RecordID `json:"user_id"`
	ModuleID   RecordID `json:"module_id"`
	AuthorName string   `json:"author_name,omitempty"`
}

// Like is a single (user, post) like. At most one may exist per pair.
type Like struct {
	RecordID RecordID `json:"id,omitempty"`
	UserID   RecordID `json:"user_id"`
	PostID   RecordID `json:"post_id"`
}

// Comment is a comment on a post. AuthorName is filled in by the gateway
// from the user service and is never sent upstream.
type Comment struct {
	RecordID   RecordID  `json:"id"`
	UserID     RecordID  `json:"user_id"`
	PostID     RecordID  `json:"post_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorName string    `json:"author_name,omitempty"`
}

// LoginResult is what the user service returns on a successful login.
type LoginResult struct {
	Message     string     `json:"message,omitempty"`
	UserID      BusinessID `json:"user_id"`
	IsAdmin     bool       `json:"is_admin"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
}
