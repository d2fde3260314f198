// Package region maps province/district selections to the five-digit
// sigungu codes the transaction lookup service is scoped by.
package region

import (
	"fmt"
	"strings"
)

// Region is one selectable district.
type Region struct {
	Province string `json:"province"`
	District string `json:"district"`
	Code     string `json:"code"`
}

// Label renders "province district".
func (r Region) Label() string {
	return r.Province + " " + r.District
}

type province struct {
	name      string
	districts []Region
}

func districts(prov string, pairs ...string) province {
	p := province{name: prov}
	for i := 0; i+1 < len(pairs); i += 2 {
		p.districts = append(p.districts, Region{Province: prov, District: pairs[i], Code: pairs[i+1]})
	}
	return p
}

var table = []province{
	districts("서울특별시",
		"종로구", "11110", "중구", "11140", "용산구", "11170", "성동구", "11200",
		"광진구", "11215", "동대문구", "11230", "중랑구", "11260", "성북구", "11290",
		"강북구", "11305", "도봉구", "11320", "노원구", "11350", "은평구", "11380",
		"서대문구", "11410", "마포구", "11440", "양천구", "11470", "강서구", "11500",
		"구로구", "11530", "금천구", "11545", "영등포구", "11560", "동작구", "11590",
		"관악구", "11620", "서초구", "11650", "강남구", "11680", "송파구", "11710",
		"강동구", "11740",
	),
	districts("경기도",
		"수원시 영통구", "41117", "성남시 분당구", "41135", "의정부시", "41150",
		"안양시 동안구", "41173", "광명시", "41210", "구리시", "41310",
		"남양주시", "41360", "하남시", "41450", "용인시 수지구", "41465",
		"고양시 일산동구", "41285",
	),
}

// Provinces lists the province names in display order.
func Provinces() []string {
	out := make([]string, 0, len(table))
	for _, p := range table {
		out = append(out, p.name)
	}
	return out
}

// Districts lists the districts of a province, or nil if unknown.
func Districts(prov string) []Region {
	for _, p := range table {
		if p.name == prov {
			out := make([]Region, len(p.districts))
			copy(out, p.districts)
			return out
		}
	}
	return nil
}

// All lists every known district.
func All() []Region {
	var out []Region
	for _, p := range table {
		out = append(out, p.districts...)
	}
	return out
}

// Lookup finds a district within a province.
func Lookup(prov, district string) (Region, bool) {
	for _, r := range Districts(prov) {
		if r.District == district {
			return r, true
		}
	}
	return Region{}, false
}

// ByCode finds a district by its sigungu code.
func ByCode(code string) (Region, bool) {
	for _, p := range table {
		for _, r := range p.districts {
			if r.Code == code {
				return r, true
			}
		}
	}
	return Region{}, false
}

// Parse resolves "province/district" or a bare five-digit code.
func Parse(sel string) (Region, error) {
	sel = strings.TrimSpace(sel)
	if r, ok := ByCode(sel); ok {
		return r, nil
	}
	prov, district, ok := strings.Cut(sel, "/")
	if !ok {
		return Region{}, fmt.Errorf("region: %q is neither a known code nor province/district", sel)
	}
	r, found := Lookup(strings.TrimSpace(prov), strings.TrimSpace(district))
	if !found {
		return Region{}, fmt.Errorf("region: unknown district %q", sel)
	}
	return r, nil
}
