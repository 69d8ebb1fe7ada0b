package handler

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"floresya-image-server/internal/common"
	"floresya-image-server/internal/common/httpx"
	"floresya-image-server/internal/model"
	"floresya-image-server/internal/usecase/app"

	"github.com/gin-gonic/gin"
)

// uploadedSlot 上传成功条目的响应形态。
type uploadedSlot struct {
	Filename     string         `json:"filename"`
	ImageIndex   int            `json:"image_index"`
	URLs         map[string]any `json:"urls"`
	IsPrimary    bool           `json:"is_primary"`
	Deduplicated bool           `json:"deduplicated"`
}

type failedUpload struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
	Message  string `json:"message"`
}

// UploadImages 上传一张或多张商品图片。
// multipart 字段名 "images"（兼容单文件字段 "file"），表单项 "primary" 为 "true" 时
// 第一张成功的图片被设为主图。
func (h *Handler) UploadImages(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, common.ErrorCodeValidation, "请求不是合法的 multipart 表单")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		httpx.Fail(c, http.StatusBadRequest, common.ErrorCodeValidation, "请选择要上传的图片")
		return
	}

	markPrimary := c.PostForm("primary") == "true"

	payloads := make([]app.UploadPayload, 0, len(files))
	for _, fh := range files {
		data, err := readMultipartFile(fh)
		if err != nil {
			log.Printf("Read upload %s error: %v\n", fh.Filename, err)
			httpx.Fail(c, http.StatusBadRequest, common.ErrorCodeValidation, "无法读取上传文件: "+fh.Filename)
			return
		}
		payloads = append(payloads, app.UploadPayload{Filename: fh.Filename, Data: data})
	}

	if len(payloads) == 1 {
		slot, deduped, err := h.uc.Ingest.IngestImage(c.Request.Context(), productID, payloads[0], markPrimary)
		if err != nil {
			httpx.WriteServiceError(c, err, "图片上传失败")
			return
		}
		httpx.Success(c, http.StatusCreated, "上传成功", gin.H{
			"created": []uploadedSlot{toUploadedSlot(payloads[0].Filename, slot, deduped)},
			"failed":  []failedUpload{},
		})
		return
	}

	results, err := h.uc.Ingest.IngestBatch(c.Request.Context(), productID, payloads)
	if err != nil {
		httpx.WriteServiceError(c, err, "图片上传失败")
		return
	}

	created := make([]uploadedSlot, 0, len(results))
	failed := make([]failedUpload, 0)
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, toFailedUpload(res))
			continue
		}
		created = append(created, toUploadedSlot(res.Filename, res.Slot, res.Deduplicated))
	}

	if len(created) == 0 {
		// 全部失败时以第一条失败原因作为整体响应
		httpx.WriteServiceError(c, results[0].Err, "图片上传失败")
		return
	}

	// markPrimary 批量场景：把第一张成功的图切为主图
	if markPrimary {
		if err := h.uc.SlotAdmin.SetPrimary(productID, created[0].ImageIndex); err != nil {
			log.Printf("Set primary after batch upload error: %v\n", err)
		} else {
			for i := range created {
				created[i].IsPrimary = i == 0
			}
		}
	}

	httpx.Success(c, http.StatusCreated, "上传完成", gin.H{
		"created": created,
		"failed":  failed,
	})
}

// ListImages 查询商品图片。默认返回聚合槽位；携带 ?size= 时返回该规格的平铺行。
func (h *Handler) ListImages(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	if size := c.Query("size"); size != "" {
		rows, err := h.uc.SlotAdmin.ListBySize(productID, size)
		if err != nil {
			httpx.WriteServiceError(c, err, "查询商品图片失败")
			return
		}
		httpx.Success(c, http.StatusOK, "查询成功", gin.H{"images": rows})
		return
	}

	slots, err := h.uc.SlotAdmin.ListSlots(productID)
	if err != nil {
		httpx.WriteServiceError(c, err, "查询商品图片失败")
		return
	}
	httpx.Success(c, http.StatusOK, "查询成功", gin.H{"slots": slots})
}

// GetPrimaryImage 查询商品主图槽位。
func (h *Handler) GetPrimaryImage(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	slot, err := h.uc.SlotAdmin.GetPrimary(productID)
	if err != nil {
		httpx.WriteServiceError(c, err, "查询商品主图失败")
		return
	}
	httpx.Success(c, http.StatusOK, "查询成功", slot)
}

// SetPrimaryImage 将指定槽位设为主图。
func (h *Handler) SetPrimaryImage(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}
	imageIndex, ok := parseImageIndex(c)
	if !ok {
		return
	}

	if err := h.uc.SlotAdmin.SetPrimary(productID, imageIndex); err != nil {
		httpx.WriteServiceError(c, err, "设置主图失败")
		return
	}
	httpx.Success(c, http.StatusOK, "设置成功", nil)
}

// DeleteImage 删除指定槽位。
func (h *Handler) DeleteImage(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}
	imageIndex, ok := parseImageIndex(c)
	if !ok {
		return
	}

	if err := h.uc.SlotAdmin.DeleteSlot(c.Request.Context(), productID, imageIndex); err != nil {
		httpx.WriteServiceError(c, err, "删除图片失败")
		return
	}
	httpx.Success(c, http.StatusOK, "删除成功", nil)
}

type reorderRequest struct {
	Order []int `json:"order" binding:"required"`
}

// ReorderImages 按给定的现有索引序列整体重排商品图片。
func (h *Handler) ReorderImages(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, common.ErrorCodeValidation, "请求体格式错误，需要 {\"order\": [...]}")
		return
	}

	if err := h.uc.SlotAdmin.Reorder(productID, req.Order); err != nil {
		httpx.WriteServiceError(c, err, "图片重排失败")
		return
	}

	slots, err := h.uc.SlotAdmin.ListSlots(productID)
	if err != nil {
		httpx.WriteServiceError(c, err, "查询商品图片失败")
		return
	}
	httpx.Success(c, http.StatusOK, "重排成功", gin.H{"slots": slots})
}

func parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		httpx.Fail(c, http.StatusBadRequest, common.ErrorCodeValidation, "无效的商品 ID")
		return 0, false
	}
	return uint(id), true
}

func parseImageIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 1 {
		httpx.Fail(c, http.StatusBadRequest, common.ErrorCodeValidation, "无效的图片槽位索引")
		return 0, false
	}
	return idx, true
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func toUploadedSlot(filename string, slot *model.ImageSlot, deduped bool) uploadedSlot {
	urls := make(map[string]any, len(slot.URLs))
	for size, url := range slot.URLs {
		urls[string(size)] = url
	}
	return uploadedSlot{
		Filename:     filename,
		ImageIndex:   slot.ImageIndex,
		URLs:         urls,
		IsPrimary:    slot.IsPrimary,
		Deduplicated: deduped,
	}
}

func toFailedUpload(res app.IngestResult) failedUpload {
	item := failedUpload{Filename: res.Filename}
	if serviceErr, ok := common.AsServiceError(res.Err); ok {
		item.Error = string(serviceErr.Code)
		item.Message = serviceErr.Message
	} else {
		item.Error = string(common.ErrorCodeInternal)
		item.Message = "图片处理失败"
	}
	return item
}
