package filter

import (
	"regexp"

	"portal_final_backend/internal/domain"
)

// attributePattern is one named attribute with the regexes that trigger it.
type attributePattern struct {
	name     string
	patterns []*regexp.Regexp
}

// placePattern is one place-type bucket with the regexes that trigger it,
// checked in declaration order (first match wins), mirroring the reference
// implementation's priority ordering of specific combos before generic
// single categories.
type placePattern struct {
	name     string
	patterns []*regexp.Regexp
}

func compileAll(raws ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(raws))
	for _, r := range raws {
		out = append(out, regexp.MustCompile(r))
	}
	return out
}

var attributePatterns = []attributePattern{
	{"맛있는", compileAll(`맛있는`, `맛집`, `잘하는`)},
	{"분위기좋은", compileAll(`분위기\s*좋은`, `분위기\s*있는`, `분위기`)},
	{"가성비좋은", compileAll(`가성비\s*좋은`, `저렴한`, `싼`, `가성비`)},
	{"조용한", compileAll(`조용한`, `한적한`)},
	{"깨끗한", compileAll(`깨끗한`, `청결한`)},
	{"신선한", compileAll(`신선한`, `싱싱한`)},
	{"뜨끈한", compileAll(`뜨끈한`, `따뜻한`, `뜨거운`)},
	{"특별한날", compileAll(`특별한\s*날`, `기념일`, `데이트`)},
	{"회식", compileAll(`회식`, `단체`)},
	{"1인분주문가능", compileAll(`1인분`, `혼자`, `혼밥`)},
	{"포장", compileAll(`포장`, `테이크\s*아웃`)},
	{"배달", compileAll(`배달`, `주문`)},
	{"숨겨진", compileAll(`숨겨진`, `소문난`, `로컬`, `개인`)},
	{"신규", compileAll(`신규`, `새로\s*생긴`, `오픈`, `뉴`)},
	{"야식", compileAll(`야식`, `밤에`, `저녁`)},
	{"다회용기", compileAll(`다회용기`, `친환경`, `용기`)},
	{"괜찮은", compileAll(`괜찮은`, `좋은`)},
	{"부모님", compileAll(`부모님`, `어른`, `모시고`)},
	{"애견동반", compileAll(`강아지`, `애견`, `반려견`)},
	{"야외", compileAll(`야외`, `테라스`, `루프탑`)},
	{"반찬", compileAll(`반찬`, `밑반찬`)},
	{"아침", compileAll(`아침`, `일찍`)},
}

var placePatterns = []placePattern{
	{"카페/디저트", compileAll(`카페/디저트`, `카페\s*디저트`)},
	{"일식/돈까스", compileAll(`일식/돈까스`, `일식.*돈까스`, `돈까스`)},
	{"피자/양식", compileAll(`피자/양식`, `피자.*양식`, `피자`, `파스타`)},
	{"회/초밥", compileAll(`회/초밥`, `(?:[^다]|^)회(?:[^식]|$)`, `초밥`, `스시`, `사시미`, `횟집`)},
	{"족발/보쌈", compileAll(`족발/보쌈`, `족발`, `보쌈`)},
	{"고기/구이", compileAll(`고기/구이`, `고기`, `구이`, `삼겹살`, `갈비`, `소고기`)},
	{"도시락/죽", compileAll(`도시락/죽`, `도시락`, `죽`)},
	{"찜/탕", compileAll(`찜/탕`, `찜`, `탕`, `찌개`, `국물`, `전골`, `찜닭`)},
	{"카페", compileAll(`카페`, `커피\s*숍`)},
	{"디저트", compileAll(`디저트`, `케이크`, `빵`)},
	{"치킨", compileAll(`치킨`, `닭`, `맥주`)},
	{"한식", compileAll(`한식`, `백반`, `한정식`)},
	{"중식", compileAll(`중식`, `중국집`, `짜장`, `짬뽕`)},
	{"분식", compileAll(`분식`, `떡볶이`, `김밥`)},
	{"양식", compileAll(`양식`, `이탈리안`)},
	{"일식", compileAll(`일식`, `일본`, `이자카야`)},
	{"샐러드", compileAll(`샐러드`, `샌드위치`)},
	{"아시안", compileAll(`아시안`, `퓨전`, `태국`, `베트남`, `쌀국수`)},
	{"패스트푸드", compileAll(`버거`, `햄버거`)},
	{"프랜차이즈", compileAll(`프랜차이즈`, `체인`)},
	{"술집", compileAll(`술집`, `바`, `주점`)},
	{"맛집", compileAll(`맛집`)},
}

var fallbackPlacePatterns = compileAll(`식당|음식점|레스토랑`, `야식`, `뭐\s*먹`)

var notFranchisePattern = regexp.MustCompile(`프랜차이즈\s*말고|체인\s*말고|유명한.*말고`)

// relativeLocationPatterns match a location phrase anchored to "here" /
// "this neighborhood" rather than a named place; C2 bypasses geocoding for
// these and returns the caller's fallback coordinates directly (§4.2).
var relativeLocationPatterns = compileAll(`이\s*근처`, `이\s*동네`, `여기`, `이\s*근방`)

// locationGazetteer is checked in order; the first match (by pattern
// position) wins. Relative-location patterns are listed last, same as the
// reference implementation, so a named place always takes priority over a
// vague "here" phrase in the same query.
var locationGazetteer = compileAll(
	`강남역?`, `홍대`, `연남동`, `성수동`, `신촌`, `광화문`, `이태원`, `삼성역?`, `여의도`, `충무로`,
	`압구정`, `청담`, `건대`, `신림`, `노원`, `강북`, `서울역`, `종로`, `명동`, `동대문`,
	`잠실`, `송파`, `영등포`, `구로`, `가산`, `목동`, `마포`, `강남구`, `서초구`, `송파구`,
	`강동구`, `성북구`, `종로구`, `중구`, `마포구`, `용산구`, `영등포구`, `관악구`, `동작구`,
	`수원`, `용인`, `성남`, `분당`, `판교`, `안양`, `부천`, `고양`, `일산`, `파주`, `김포`,
	`평택`, `화성`, `광명`, `부산`, `해운대`, `광안리`, `서면`, `남포동`, `대구`, `인천`,
	`광주`, `대전`, `울산`, `세종`, `제주도?`, `제주시`, `서귀포`,
	`이\s*근처`, `이\s*동네`, `여기`, `이\s*근방`,
)

// ExtractKeywords runs the rule-based attribute/place-type/location
// classification (§4.1). This is the deterministic fallback path; an
// optional LLM collaborator may be tried first by the caller (internal/llm)
// and this function used on any failure.
func ExtractKeywords(text string) domain.ExtractedKeywords {
	var attributes []string
	for _, ap := range attributePatterns {
		for _, p := range ap.patterns {
			if p.MatchString(text) {
				attributes = append(attributes, ap.name)
				break
			}
		}
	}

	placeType := ""
	for _, pp := range placePatterns {
		for _, p := range pp.patterns {
			if p.MatchString(text) {
				placeType = pp.name
				break
			}
		}
		if placeType != "" {
			break
		}
	}
	if placeType == "" {
		for _, p := range fallbackPlacePatterns {
			if p.MatchString(text) {
				placeType = "맛집"
				break
			}
		}
	}

	if notFranchisePattern.MatchString(text) && !containsString(attributes, "숨겨진") {
		attributes = append(attributes, "숨겨진")
	}

	location := ""
	for _, p := range locationGazetteer {
		if m := p.FindString(text); m != "" {
			location = m
			break
		}
	}

	return domain.ExtractedKeywords{
		PlaceType:  placeType,
		Attributes: attributes,
		Location:   location,
	}
}

// IsRelativeLocation reports whether phrase is a relative ("near here")
// location rather than a named place, per §4.2's geocode bypass rule.
func IsRelativeLocation(phrase string) bool {
	for _, p := range relativeLocationPatterns {
		if p.MatchString(phrase) {
			return true
		}
	}
	return false
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
