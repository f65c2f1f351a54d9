// Package dashboard composes the landing-page aggregate: latest news with
// totals and the newest active businesses with their product stats.
package dashboard

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/manukanwetan/umkm-api/app/api"
	"github.com/manukanwetan/umkm-api/models"
)

const itemLimit = 4

type NewsProvider interface {
	GetLatest(limit int) ([]models.News, error)
	Count() (int64, error)
}

type UmkmProvider interface {
	ActivePreview(limit int) ([]models.UmkmListing, error)
	CountActive() (int64, error)
}

type DashboardHandler struct {
	news NewsProvider
	umkm UmkmProvider
}

func NewDashboardHandler(news NewsProvider, umkm UmkmProvider) *DashboardHandler {
	return &DashboardHandler{news: news, umkm: umkm}
}

type NewsItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type UmkmItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Image         string   `json:"image"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	JumlahProduk  int64    `json:"jumlahProduk"`
	HargaTermurah *float64 `json:"hargaTermurah"`
}

type Section[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type DashboardResponse struct {
	News Section[NewsItem] `json:"news"`
	Umkm Section[UmkmItem] `json:"umkm"`
}

func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	var (
		newsItems []models.News
		newsTotal int64
		umkmRows  []models.UmkmListing
		umkmTotal int64
	)

	// The four reads are independent, so they run concurrently.
	g, _ := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		newsItems, err = h.news.GetLatest(itemLimit)
		return err
	})
	g.Go(func() (err error) {
		newsTotal, err = h.news.Count()
		return err
	})
	g.Go(func() (err error) {
		umkmRows, err = h.umkm.ActivePreview(itemLimit)
		return err
	})
	g.Go(func() (err error) {
		umkmTotal, err = h.umkm.CountActive()
		return err
	})
	if err := g.Wait(); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}

	news := make([]NewsItem, len(newsItems))
	for i, n := range newsItems {
		news[i] = NewsItem{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Image:     n.Image,
			CreatedAt: n.CreatedAt,
		}
	}
	umkm := make([]UmkmItem, len(umkmRows))
	for i, row := range umkmRows {
		umkm[i] = UmkmItem{
			ID:            row.ID,
			Name:          row.Name,
			Image:         row.Image,
			Address:       row.Address,
			Phone:         row.Phone,
			Description:   row.Description,
			Category:      row.Category,
			JumlahProduk:  row.JumlahProduk,
			HargaTermurah: nullDecimalToFloat(row),
		}
	}

	api.JSON(w, http.StatusOK, api.Response{Message: "dashboard fetched", Data: DashboardResponse{
		News: Section[NewsItem]{Items: news, Total: newsTotal},
		Umkm: Section[UmkmItem]{Items: umkm, Total: umkmTotal},
	}})
}

func nullDecimalToFloat(row models.UmkmListing) *float64 {
	if !row.HargaTermurah.Valid {
		return nil
	}
	f := row.HargaTermurah.Decimal.InexactFloat64()
	return &f
}
