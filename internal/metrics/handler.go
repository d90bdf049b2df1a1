package metrics

import (
	"encoding/json"
	"net/http"
)

// Handler 输出统计数据的HTTP处理器
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collector := GetCollector()
		if collector == nil {
			http.Error(w, "metrics not initialized", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(collector.GetSnapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
