package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondStoreError maps a repository error onto the response. Missing rows
// surface as NOT_FOUND whether the resource is absent or owned by someone
// else; the caller cannot tell the two apart. Everything else is a generic
// server fault with no detail exposed.
func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
