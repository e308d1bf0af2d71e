package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnTengye/mediconnect/discovery"
	"github.com/AnTengye/mediconnect/model"
	"github.com/AnTengye/mediconnect/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type DoctorHandler struct {
	catalog  *service.ProviderCatalog
	pageSize int
	sortOpts []discovery.SortOption
}

func NewDoctorHandler(catalog *service.ProviderCatalog, pageSize int, locale language.Tag) *DoctorHandler {
	return &DoctorHandler{
		catalog:  catalog,
		pageSize: pageSize,
		sortOpts: []discovery.SortOption{discovery.WithLocale(locale)},
	}
}

// searchResponse is one page of search results
type searchResponse struct {
	discovery.Result
	Empty bool `json:"empty"`
}

// Search runs the discovery pipeline over the catalog
func (h *DoctorHandler) Search(c *gin.Context) {
	if !h.catalog.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := pageFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := discovery.Run(h.catalog.All(), criteria, page, h.pageSize, h.sortOpts...)
	c.JSON(http.StatusOK, searchResponse{Result: res, Empty: res.Empty()})
}

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Filters returns the choices offered by the search filter controls
func (h *DoctorHandler) Filters(c *gin.Context) {
	rates := []option{{Value: string(discovery.RateAny), Label: discovery.RateAny.Label()}}
	for _, b := range discovery.RateBuckets {
		rates = append(rates, option{Value: string(b), Label: b.Label()})
	}
	sorts := make([]option, 0, len(discovery.SortKeys))
	for _, k := range discovery.SortKeys {
		sorts = append(sorts, option{Value: string(k), Label: k.Label()})
	}

	c.JSON(http.StatusOK, gin.H{
		"specializations": model.Specializations,
		"rates":           rates,
		"sorts":           sorts,
		"defaults":        discovery.DefaultCriteria(),
		"page_size":       h.pageSize,
	})
}

// Get returns one provider
func (h *DoctorHandler) Get(c *gin.Context) {
	if !h.catalog.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}

	p, ok := h.catalog.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"doctor":    p,
		"full_name": p.FullName(),
	})
}

// criteriaFromQuery reads search criteria. Missing parameters keep the
// defaults: approved doctors only, sorted by name.
func criteriaFromQuery(c *gin.Context) (discovery.Criteria, error) {
	criteria := discovery.DefaultCriteria()
	criteria.Search = c.Query("q")
	criteria.Specialization = c.Query("specialization")
	criteria.Location = c.Query("location")
	criteria.RateBucket = discovery.RateBucket(c.Query("rate"))

	if v, ok := c.GetQuery("approved"); ok && v != "" {
		approved, err := strconv.ParseBool(v)
		if err != nil {
			return criteria, errInvalidParam("approved", v)
		}
		criteria.ApprovedOnly = approved
	}
	if v := c.Query("sort"); v != "" {
		criteria.Sort = discovery.SortKey(strings.ToLower(v))
	}
	return criteria, nil
}

// pageFromQuery reads the 1-indexed page; out of range values are clamped
// by the pipeline.
func pageFromQuery(c *gin.Context) (int, error) {
	v := c.Query("page")
	if v == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(v)
	if err != nil {
		return 0, errInvalidParam("page", v)
	}
	return page, nil
}

func errInvalidParam(name, value string) error {
	return fmt.Errorf("invalid %s parameter: %q", name, value)
}
