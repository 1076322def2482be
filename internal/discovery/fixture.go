package discovery

import (
	"context"

	"portal_final_backend/internal/domain"
)

// fixtureStore is one entry of the embedded offline dataset: ten real cafés
// in the Chungmuro/Dongguk-University area of Seoul with a handful of their
// actual Korean review snippets, used as a degraded-mode provider when no
// live map-provider credentials are configured.
type fixtureStore struct {
	name           string
	category       string
	address        string
	lat, lon       float64
	distanceMeters float64
	reviews        []string
}

var chungmuroFixture = []fixtureStore{
	{
		name: "장충동커피", category: "카페", address: "서울 중구 퇴계로 장충동",
		lat: 37.5599, lon: 127.0059, distanceMeters: 180,
		reviews: []string{
			"생각없이 방문했는데 커피 퀄리티가 너무 좋와서 놀랐네요 따듯한 아메리카노 샷 추가 추천합니다",
			"굿",
			"테이크전문 커피숍인데 가성비 좋네요",
		},
	},
	{
		name: "기브온 카페인바", category: "카페", address: "서울 중구 필동 남산동",
		lat: 37.5605, lon: 126.9951, distanceMeters: 240,
		reviews: []string{
			"생레몬 구겔호프 상큼하니 맛있어요! 카페 오는 길 남산타워가 환상입니다...",
			"커피는 물론이고 디저트가 아주 훌륭합니다 특히 비스코티는 중독적이네요.. 또 먹으러 가겠습니다",
			"매장 입장과 동시에 고소한 커피 향이 솔솔~~ 충무로 필동 원탑 커피 맛집입니다",
		},
	},
	{
		name: "포우즈", category: "카페", address: "서울 중구 필동로",
		lat: 37.5612, lon: 126.9940, distanceMeters: 310,
		reviews: []string{"굿", "굿", "루프탑카페. 날씨좋을때 가면 좋음"},
	},
	{
		name: "스트릿 그릭요거트 카페", category: "카페/디저트", address: "서울 중구 필동",
		lat: 37.5590, lon: 126.9935, distanceMeters: 150,
		reviews: []string{
			"그릭요거트 땡겨서 먹으러왔는데 다른 데에 비해 가성비가 좋아요 사장님도 친절하셔서 좋아요",
			"가게 너무 귀엽고 무화과 요거트 너무 맛있어요",
			"고즈넉한 분위기의 맛있는 요거트집이에요. 무화과볼 처돌이로써 이곳 무화과 진짜 신선하고요",
		},
	},
	{
		name: "로이터 커피 셸터", category: "카페", address: "서울 중구 필동로3가",
		lat: 37.5601, lon: 126.9962, distanceMeters: 270,
		reviews: []string{
			"필동로를 따라 걷다보면 3층의 넓은 카페입니다!! 뷰도 아늑하고 커피도 맛있어서 풀만족합니다",
			"카페보단,갤러리나 스튜디오 느낌의 공간",
			"좋아요",
		},
	},
	{
		name: "프릳츠 장충점", category: "카페", address: "서울 중구 장충단로",
		lat: 37.5581, lon: 127.0070, distanceMeters: 420,
		reviews: []string{
			"아내와 연애 시절 추억이 있던 프릳츠.",
			"드디어 원두랑 드립 라인업 맞춰놨네",
			"카페의 고즈넉한 분위기와 음악이 커피의 맛과 향에 더 취하게 하는 기억에 남을 곳입니다",
		},
	},
	{
		name: "커피드니로", category: "카페", address: "서울 중구 퇴계로",
		lat: 37.5608, lon: 126.9978, distanceMeters: 360,
		reviews: []string{
			"배우..아니 사장님 진짜로 커피에 진심이시군요...",
			"태인호 배우님의 팬으로 남양주에서 찾아갔는데 커피 맛집이네요.",
			"커피는드니로배우는태인호",
		},
	},
	{
		name: "미드템포", category: "카페", address: "서울 중구 동국대입구",
		lat: 37.5582, lon: 127.0011, distanceMeters: 95,
		reviews: []string{
			"분위기가 좋고 음료도 다 맛있어요!!",
			"학교 근처여서 들려봤는데 너무 좋고 라떼도 너무너무 맛있었어요!!",
			"분위기도 너무 좋고 동국대 제휴 할인도 됩니다!",
		},
	},
	{
		name: "포미스커피", category: "카페", address: "서울 중구 동국대입구",
		lat: 37.5578, lon: 127.0003, distanceMeters: 130,
		reviews: []string{
			"쿠키가 다양하고 너무 맛있어요~!! 묵직함",
			"말차쿠키 단골",
			"충무로역에서 동국대 후문 인근 카페입니다.",
		},
	},
	{
		name: "하우스 커피 앤 디저트", category: "카페/디저트", address: "서울 중구 동국대입구",
		lat: 37.5575, lon: 126.9998, distanceMeters: 200,
		reviews: []string{
			"소금빵이랑 기본 휘낭시에 샀는데 휘낭시에에서 마늘빵맛 나요",
			"한국적이고 어릴때 먹던 수정과 생각나는 맛이예요",
			"가을만끽하기 좋은 동국대 인근 숲속 위치",
		},
	},
}

// OfflineProvider serves the embedded Chungmuro fixture regardless of the
// requested coordinates, filtered by place type with the same normalization
// and category match as the live provider. Unlike the live provider, it does
// not fall back to the unfiltered list when nothing matches: it returns an
// unsuccessful Result instead. Used when DiscoveryConfig selects "offline"
// (no provider credentials) and in tests.
type OfflineProvider struct {
	sampleSize  int
	reviewCount int
}

func NewOfflineProvider(sampleSize, reviewCount int) *OfflineProvider {
	return &OfflineProvider{sampleSize: sampleSize, reviewCount: reviewCount}
}

func (p *OfflineProvider) Discover(_ context.Context, q Query) (Result, error) {
	normalized := normalizePlaceType(q.PlaceType)

	var merchants []domain.Merchant
	for _, s := range chungmuroFixture {
		if !matchesCategory(normalized, s.category) {
			continue
		}
		reviews := s.reviews
		if len(reviews) > p.reviewCount {
			reviews = reviews[:p.reviewCount]
		}
		distance := s.distanceMeters
		merchants = append(merchants, domain.Merchant{
			StoreID:        s.name,
			Name:           s.name,
			Category:       s.category,
			Address:        s.address,
			Coords:         &domain.Coordinates{Lat: s.lat, Lon: s.lon},
			DistanceMeters: &distance,
			Reviews:        reviews,
		})
	}

	if len(merchants) == 0 {
		return Result{Success: false, Message: "no candidates found in offline fixture"}, nil
	}
	if p.sampleSize > 0 && len(merchants) > p.sampleSize {
		merchants = merchants[:p.sampleSize]
	}

	return Result{Success: true, Merchants: merchants, Source: "offline_fixture"}, nil
}

var _ Provider = (*OfflineProvider)(nil)
