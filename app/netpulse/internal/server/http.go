package server

import (
	"encoding/json"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/netpulse/app/netpulse/internal/service"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
)

func NewHTTPServer(c *config.Config, s *service.NetPulseService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.Filter(corsFilter),
		http.ErrorEncoder(encodeError),
	}
	if c.Server.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.Server.HTTP.Addr))
	}
	if c.Server.HTTP.Timeout > 0 {
		opts = append(opts, http.Timeout(c.Server.HTTP.Timeout))
	}

	srv := http.NewServer(opts...)

	r := srv.Route("/api")
	r.POST("/analyze", s.Analyze)
	r.GET("/trending", s.Trending)
	r.POST("/share", s.CreateShare)
	r.GET("/share/{id}", s.GetShare)

	return srv
}

// corsFilter 所有响应带上 CORS 头，预检请求直接返回
func corsFilter(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == nethttp.MethodOptions {
			w.WriteHeader(nethttp.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// encodeError 错误统一编码为 {"error": message}
func encodeError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := errors.FromError(err)
	msg := se.Message
	if se.Reason == "" {
		// 非业务错误不向调用方暴露细节
		msg = "Internal Server Error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(se.Code))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
