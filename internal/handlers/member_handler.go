package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ruben-Jim/shelton-springs-sub001/config"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/household"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// MemberResponse keeps password hashes out of API responses.
type MemberResponse struct {
	ID            uint   `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	UnitNumber    string `json:"unitNumber"`
	HouseholdKey  string `json:"householdKey"`
	IsResident    bool   `json:"isResident"`
	IsRenter      bool   `json:"isRenter"`
	IsBoardMember bool   `json:"isBoardMember"`
	IsBlocked     bool   `json:"isBlocked"`
}

func toMemberResponse(m *models.Member) MemberResponse {
	return MemberResponse{
		ID:            m.ID,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Email:         m.Email,
		Phone:         m.Phone,
		Address:       m.Address,
		UnitNumber:    m.UnitNumber,
		HouseholdKey:  household.Key(m.Address, m.UnitNumber),
		IsResident:    m.IsResident != nil && *m.IsResident,
		IsRenter:      m.IsRenter,
		IsBoardMember: m.IsBoardMember,
		IsBlocked:     m.IsBlocked,
	}
}

// ListMembersHandler returns the roster, paginated, with optional search on
// name, email, or address.
func ListMembersHandler(c *gin.Context) {
	var members []models.Member
	query := config.DB.Order("id asc")

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var totalRows int64
	countQuery := query
	if err := countQuery.Model(&models.Member{}).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count members"})
		return
	}

	paginatedQuery := query.Scopes(Paginate(c))
	if err := paginatedQuery.Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch members"})
		return
	}

	responses := make([]MemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, toMemberResponse(&members[i]))
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, responses, totalRows))
}

// GetMemberHandler returns one member by id.
func GetMemberHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}
	var member models.Member
	if err := config.DB.First(&member, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch member"})
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(&member))
}

type CreateMemberRequest struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password" binding:"required"`
	Phone         string `json:"phone"`
	Address       string `json:"address" binding:"required"`
	UnitNumber    string `json:"unitNumber"`
	IsResident    *bool  `json:"isResident"`
	IsRenter      bool   `json:"isRenter"`
	IsBoardMember bool   `json:"isBoardMember"`
}

// CreateMemberHandler adds a member to the roster and resolves their
// household record.
func CreateMemberHandler(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member data: " + err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	isResident := true
	if req.IsResident != nil {
		isResident = *req.IsResident
	}
	member := models.Member{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      string(hash),
		Phone:         req.Phone,
		Address:       req.Address,
		UnitNumber:    req.UnitNumber,
		IsResident:    &isResident,
		IsRenter:      req.IsRenter,
		IsBoardMember: req.IsBoardMember,
	}

	key := household.Key(req.Address, req.UnitNumber)
	var hh models.Household
	err = config.DB.Where("household_key = ?", key).
		FirstOrCreate(&hh, models.Household{HouseholdKey: key, Address: req.Address, UnitNumber: req.UnitNumber}).Error
	if err == nil {
		member.HouseholdID = &hh.ID
	}

	if err := config.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create member"})
		return
	}
	c.JSON(http.StatusCreated, toMemberResponse(&member))
}

type UpdateMemberRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	UnitNumber    *string `json:"unitNumber"`
	IsResident    *bool   `json:"isResident"`
	IsRenter      *bool   `json:"isRenter"`
	IsBoardMember *bool   `json:"isBoardMember"`
	IsBlocked     *bool   `json:"isBlocked"`
}

// UpdateMemberHandler patches roster fields. A changed address re-resolves
// the household link.
func UpdateMemberHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var member models.Member
	if err := config.DB.First(&member, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch member"})
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member data: " + err.Error()})
		return
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Address != nil {
		member.Address = *req.Address
	}
	if req.UnitNumber != nil {
		member.UnitNumber = *req.UnitNumber
	}
	if req.IsResident != nil {
		member.IsResident = req.IsResident
	}
	if req.IsRenter != nil {
		member.IsRenter = *req.IsRenter
	}
	if req.IsBoardMember != nil {
		member.IsBoardMember = *req.IsBoardMember
	}
	if req.IsBlocked != nil {
		member.IsBlocked = *req.IsBlocked
	}

	if req.Address != nil || req.UnitNumber != nil {
		key := household.Key(member.Address, member.UnitNumber)
		var hh models.Household
		err := config.DB.Where("household_key = ?", key).
			FirstOrCreate(&hh, models.Household{HouseholdKey: key, Address: member.Address, UnitNumber: member.UnitNumber}).Error
		if err == nil {
			member.HouseholdID = &hh.ID
		}
	}

	if err := config.DB.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update member"})
		return
	}
	invalidateMemberCache(member.ID)
	c.JSON(http.StatusOK, toMemberResponse(&member))
}

// DeleteMemberHandler removes a member from the roster. Obligation records
// keep their userId; the repair utility re-points them later if needed.
func DeleteMemberHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}
	result := config.DB.Delete(&models.Member{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete member"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	invalidateMemberCache(uint(id))
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

func memberCacheKey(id uint) string {
	return fmt.Sprintf("member:%d:data", id)
}

func invalidateMemberCache(id uint) {
	if config.RDB != nil {
		config.RDB.Del(config.Ctx, memberCacheKey(id))
	}
}
