package dto

import "saripos/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

type RegisterRequest struct {
	Username string     `json:"username" validate:"required,min=1,max=50"`
	Password string     `json:"password" validate:"required,min=4"`
	Role     model.Role `json:"role"     validate:"omitempty,oneof=admin cashier"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
