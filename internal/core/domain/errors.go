package domain

import "errors"

var ErrForbidden = errors.New("access forbidden")

var ErrUserNotFound = errors.New("user not found")
var ErrTaskNotFound = errors.New("task not found")
var ErrTeamNotFound = errors.New("team not found")
var ErrMemberNotFound = errors.New("team member not found")
var ErrCommentNotFound = errors.New("comment not found")
var ErrAttachmentNotFound = errors.New("attachment not found")
var ErrNotificationNotFound = errors.New("notification not found")

var ErrUserExists = errors.New("user already exists")
var ErrAlreadyMember = errors.New("user is already a member of this team")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrUserInactive = errors.New("user account is deactivated")
var ErrWeakPassword = errors.New("password does not meet the security policy")
