package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/export"
)

// respondList writes one page of items in the list envelope
func respondList[T any](ctx *gin.Context, items []T, total int64, limit int) {
	if items == nil {
		items = []T{}
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(items, len(items), total, limit))
}

// respondWorkbook sends an XLSX attachment
func respondWorkbook(ctx *gin.Context, filename string, body *bytes.Buffer) {
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, export.ContentType, body.Bytes())
}
