package service

import (
	"context"
	"io"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/netpulse/app/netpulse/internal/usecase"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/engine"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/share"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/trending"
)

// AnalyzeRequest POST /api/analyze 请求体
type AnalyzeRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
	Lang  string `json:"lang"`
}

// TrendingReply GET /api/trending 返回
type TrendingReply struct {
	Topics []string `json:"topics"`
}

type NetPulseService struct {
	engine   *engine.Engine
	trending *trending.Service
	ucShare  *usecase.ShareUseCase
	log      *log.Helper
}

func NewNetPulseService(eng *engine.Engine, tr *trending.Service, ucShare *usecase.ShareUseCase, logger log.Logger) *NetPulseService {
	return &NetPulseService{
		engine:   eng,
		trending: tr,
		ucShare:  ucShare,
		log:      log.NewHelper(logger),
	}
}

func (s *NetPulseService) Analyze(ctx http.Context) error {
	var req AnalyzeRequest
	if err := ctx.Bind(&req); err != nil {
		// 交给引擎统一返回配置错误或 Missing query parameter
		s.log.Warnf("analyze: bad request body: %v", err)
		req = AnalyzeRequest{}
	}

	h := ctx.Middleware(func(c context.Context, in any) (any, error) {
		r := in.(*AnalyzeRequest)
		return s.engine.Analyze(c, r.Query, model.ParseMode(r.Mode), model.ParseLang(r.Lang))
	})
	out, err := h(ctx, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(200, out)
}

// Trending 永远返回 200，失败时给出默认话题
func (s *NetPulseService) Trending(ctx http.Context) error {
	lang := model.ParseLang(ctx.Query().Get("lang"))

	var topics []string
	if s.trending != nil {
		topics = s.trending.Topics(ctx, lang)
	} else {
		topics = trending.DefaultTopics(lang)
	}
	return ctx.JSON(200, &TrendingReply{Topics: topics})
}

func (s *NetPulseService) CreateShare(ctx http.Context) error {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, share.MaxDecodedSize+1))
	if err != nil || len(body) > share.MaxDecodedSize {
		return usecase.ErrInvalidShareData
	}

	h := ctx.Middleware(func(c context.Context, in any) (any, error) {
		return s.ucShare.Create(c, in.([]byte))
	})
	out, err := h(ctx, body)
	if err != nil {
		return err
	}
	return ctx.JSON(200, out)
}

func (s *NetPulseService) GetShare(ctx http.Context) error {
	id := ctx.Vars().Get("id")

	h := ctx.Middleware(func(c context.Context, in any) (any, error) {
		return s.ucShare.Get(c, in.(string))
	})
	out, err := h(ctx, id)
	if err != nil {
		return err
	}
	return ctx.JSON(200, out)
}
