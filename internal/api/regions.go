package api

import "github.com/jbweber/homelab/northwind/internal/domain"

// RegionDTO is the wire shape of a region
type RegionDTO struct {
	ID                int64  `json:"id"`
	RegionDescription string `json:"regionDescription"`
}

// RegionInput is the body of region create and update requests
type RegionInput struct {
	RegionDescription string `json:"regionDescription" validate:"required,max=50"`
}

func (a *API) regions() *resource[domain.Region, RegionDTO, RegionInput] {
	return &resource[domain.Region, RegionDTO, RegionInput]{
		api:    a,
		name:   "Region",
		plural: "Regions",
		repo:   a.repos.Regions,
		read:   anyRole,
		toDTO: func(r domain.Region) RegionDTO {
			return RegionDTO(r)
		},
		fromInput: func(in RegionInput) domain.Region {
			return domain.Region{RegionDescription: in.RegionDescription}
		},
		unique: func(in RegionInput) []uniqueField {
			return []uniqueField{uniqueOn("description", "region_description", in.RegionDescription)}
		},
	}
}

// TerritoryDTO is the wire shape of a territory
type TerritoryDTO struct {
	ID                   int64  `json:"id"`
	TerritoryDescription string `json:"territoryDescription"`
	RegionID             int64  `json:"regionId"`
}

// TerritoryInput is the body of territory create and update requests
type TerritoryInput struct {
	TerritoryDescription string `json:"territoryDescription" validate:"required,max=50"`
	RegionID             int64  `json:"regionId" validate:"required,gt=0"`
}

func (a *API) territories() *resource[domain.Territory, TerritoryDTO, TerritoryInput] {
	return &resource[domain.Territory, TerritoryDTO, TerritoryInput]{
		api:    a,
		name:   "Territory",
		plural: "Territories",
		repo:   a.repos.Territories,
		read:   anyRole,
		toDTO: func(t domain.Territory) TerritoryDTO {
			return TerritoryDTO(t)
		},
		fromInput: func(in TerritoryInput) domain.Territory {
			return domain.Territory{TerritoryDescription: in.TerritoryDescription, RegionID: in.RegionID}
		},
		unique: func(in TerritoryInput) []uniqueField {
			return []uniqueField{uniqueOn("description", "territory_description", in.TerritoryDescription)}
		},
		refs: func(t domain.Territory) []reference {
			return []reference{refTo("Region", a.repos.Regions, &t.RegionID)}
		},
	}
}
