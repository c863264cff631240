package updaterequest

import (
	"strings"

	"github.com/kpata360-rgb/workisready-backend1/internal/location"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"
)

// Changes is the partial field set of an update request. A nil field is
// not part of the request.
type Changes struct {
	BusinessName    *string   `json:"businessName,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	WhatsApp        *string   `json:"whatsapp,omitempty"`
	ExperienceYears *int      `json:"experienceYears,omitempty"`
	Categories      []string  `json:"categories,omitempty"`
	Skills          *[]string `json:"skills,omitempty"`
	City            *string   `json:"city,omitempty"`
	Region          *string   `json:"region,omitempty"`
	District        *string   `json:"district,omitempty"`
}

// SubmitRequest is the multipart body of POST /providers/update-request.
// Categories and skills are repeated form keys; new files travel as sampleWork.
type SubmitRequest struct {
	BusinessName    *string  `form:"businessName" binding:"omitempty,max=150"`
	Bio             *string  `form:"bio" binding:"omitempty,max=5000"`
	Phone           *string  `form:"phone" binding:"omitempty,max=30"`
	WhatsApp        *string  `form:"whatsapp" binding:"omitempty,max=30"`
	ExperienceYears *int     `form:"experienceYears" binding:"omitempty,gte=0,lte=80"`
	Categories      []string `form:"categories" binding:"max=20,dive,max=100"`
	Skills          []string `form:"skills" binding:"max=50,dive,max=100"`
	// ClearSkills proposes an empty skills list.
	ClearSkills bool    `form:"clearSkills"`
	City        *string `form:"city" binding:"omitempty,max=100"`
	Region      *string `form:"region" binding:"omitempty,max=100"`
	District    *string `form:"district" binding:"omitempty,max=100"`
}

// Diff keeps only the submitted fields whose values differ from p.
func Diff(p *provider.Provider, req SubmitRequest) Changes {
	var c Changes
	c.BusinessName = changedString(req.BusinessName, p.BusinessName, false)
	c.Bio = changedString(req.Bio, p.Bio, true)
	c.Phone = changedString(req.Phone, p.Phone, true)
	c.WhatsApp = changedString(req.WhatsApp, p.WhatsApp, true)
	if req.ExperienceYears != nil && *req.ExperienceYears != p.ExperienceYears {
		v := *req.ExperienceYears
		c.ExperienceYears = &v
	}
	if cats := provider.CleanList(req.Categories); len(cats) > 0 && !sameKeys(cats, p.Labels()) {
		c.Categories = cats
	}
	switch {
	case req.ClearSkills:
		if len(p.Skills) > 0 {
			empty := []string{}
			c.Skills = &empty
		}
	case len(req.Skills) > 0:
		if skills := provider.CleanList(req.Skills); !sameExact(skills, p.Skills) {
			c.Skills = &skills
		}
	}
	c.City = changedString(req.City, p.Location.City, true)
	c.Region = changedString(req.Region, p.Location.Region, false)
	c.District = changedString(req.District, p.Location.District, true)
	return c
}

func changedString(proposed *string, current string, allowEmpty bool) *string {
	if proposed == nil {
		return nil
	}
	v := strings.TrimSpace(*proposed)
	if v == "" && !allowEmpty {
		return nil
	}
	if v == current {
		return nil
	}
	return &v
}

// sameKeys reports whether two label lists hold the same normalized keys,
// ignoring order and repeats.
func sameKeys(a, b []string) bool {
	keys := func(labels []string) map[string]struct{} {
		set := make(map[string]struct{}, len(labels))
		for _, l := range labels {
			set[location.NormalizeKey(l)] = struct{}{}
		}
		return set
	}
	ka, kb := keys(a), keys(b)
	if len(ka) != len(kb) {
		return false
	}
	for k := range ka {
		if _, ok := kb[k]; !ok {
			return false
		}
	}
	return true
}

func sameExact(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no field is set.
func (c Changes) IsEmpty() bool {
	return len(c.Fields()) == 0
}

// Fields lists the names of the fields that are set.
func (c Changes) Fields() []string {
	fields := make([]string, 0, 10)
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(c.BusinessName != nil, "businessName")
	add(c.Bio != nil, "bio")
	add(c.Phone != nil, "phone")
	add(c.WhatsApp != nil, "whatsapp")
	add(c.ExperienceYears != nil, "experienceYears")
	add(len(c.Categories) > 0, "categories")
	add(c.Skills != nil, "skills")
	add(c.City != nil, "city")
	add(c.Region != nil, "region")
	add(c.District != nil, "district")
	return fields
}

// Apply copies every set field onto p. It reports whether the category
// list was replaced.
func (c Changes) Apply(p *provider.Provider) bool {
	if c.BusinessName != nil {
		p.BusinessName = *c.BusinessName
	}
	if c.Bio != nil {
		p.Bio = *c.Bio
	}
	if c.Phone != nil {
		p.Phone = *c.Phone
	}
	if c.WhatsApp != nil {
		p.WhatsApp = *c.WhatsApp
	}
	if c.ExperienceYears != nil {
		p.ExperienceYears = *c.ExperienceYears
	}
	if c.Skills != nil {
		p.Skills = append([]string{}, (*c.Skills)...)
	}
	if c.City != nil {
		p.Location.City = *c.City
	}
	if c.Region != nil {
		p.Location.Region = *c.Region
	}
	if c.District != nil {
		p.Location.District = *c.District
	}
	p.Location.Normalize()
	if len(c.Categories) == 0 {
		return false
	}
	p.SetCategories(c.Categories)
	return true
}

// Current returns p's present values for the fields set in c.
func (c Changes) Current(p *provider.Provider) Changes {
	var cur Changes
	str := func(set bool, v string) *string {
		if !set {
			return nil
		}
		return &v
	}
	cur.BusinessName = str(c.BusinessName != nil, p.BusinessName)
	cur.Bio = str(c.Bio != nil, p.Bio)
	cur.Phone = str(c.Phone != nil, p.Phone)
	cur.WhatsApp = str(c.WhatsApp != nil, p.WhatsApp)
	if c.ExperienceYears != nil {
		v := p.ExperienceYears
		cur.ExperienceYears = &v
	}
	if len(c.Categories) > 0 {
		cur.Categories = p.Labels()
	}
	if c.Skills != nil {
		skills := append([]string{}, p.Skills...)
		cur.Skills = &skills
	}
	cur.City = str(c.City != nil, p.Location.City)
	cur.Region = str(c.Region != nil, p.Location.Region)
	cur.District = str(c.District != nil, p.Location.District)
	return cur
}
