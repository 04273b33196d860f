package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestError_CarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-9")

	Conflict(c, 14120, "冲突")

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if w.Code != http.StatusConflict || resp.Code != 14120 || resp.RequestID != "rid-9" {
		t.Errorf("响应异常: status=%d body=%+v", w.Code, resp)
	}
}

func TestOKPage_TotalPages(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		OKPage(c, []int{}, tc.total, 1, tc.pageSize)

		var body struct {
			Data PageData `json:"data"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Data.Pagination.TotalPages != tc.want {
			t.Errorf("total=%d size=%d: 期望 %d 页，实际 %d", tc.total, tc.pageSize, tc.want, body.Data.Pagination.TotalPages)
		}
	}
}
