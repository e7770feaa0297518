package repository

import "github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"

func seedDate(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic("repository: bad seed date " + s)
	}
	return d
}

// demoProjects is the first-run data set shown before any real project has
// been saved. Ids are fixed so the demo walkthrough stays reproducible.
func demoProjects() []domain.BidProject {
	return []domain.BidProject{
		{
			ID:           "1",
			Name:         "市政道路智慧交通监控系统",
			Client:       "某市交通管理局",
			Industry:     "智慧交通",
			Budget:       "500-800万",
			Deadline:     seedDate("2026-03-15"),
			Status:       domain.StatusDesigning,
			Source:       domain.SourceCrawled,
			Requirements: "建设覆盖全市主要道路的智慧交通监控系统，包含视频监控、流量分析、信号控制等模块。",
			CreatedAt:    seedDate("2026-02-10"),
			UpdatedAt:    seedDate("2026-02-13"),
		},
		{
			ID:           "2",
			Name:         "产业园区综合能源管理平台",
			Client:       "某经济开发区管委会",
			Industry:     "能源管理",
			Budget:       "300-500万",
			Deadline:     seedDate("2026-03-01"),
			Status:       domain.StatusQuoting,
			Source:       domain.SourceCrawled,
			Requirements: "建设园区综合能源管理平台，实现能耗监测、节能优化、碳排放管理等功能。",
			CreatedAt:    seedDate("2026-02-05"),
			UpdatedAt:    seedDate("2026-02-12"),
		},
		{
			ID:           "3",
			Name:         "医院信息化升级改造项目",
			Client:       "某三甲医院",
			Industry:     "医疗信息化",
			Budget:       "200-400万",
			Deadline:     seedDate("2026-04-10"),
			Status:       domain.StatusPending,
			Source:       domain.SourceCrawled,
			Requirements: "HIS系统升级、电子病历系统建设、远程会诊平台搭建。",
			CreatedAt:    seedDate("2026-02-14"),
			UpdatedAt:    seedDate("2026-02-14"),
		},
		{
			ID:           "4",
			Name:         "智慧校园安防系统建设",
			Client:       "某大学",
			Industry:     "智慧校园",
			Budget:       "150-250万",
			Deadline:     seedDate("2026-02-28"),
			Status:       domain.StatusPending,
			Source:       domain.SourceCrawled,
			Requirements: "校园安防监控系统、人脸识别门禁、访客管理系统建设。",
			CreatedAt:    seedDate("2026-02-13"),
			UpdatedAt:    seedDate("2026-02-13"),
		},
		{
			ID:           "5",
			Name:         "水务集团SCADA系统",
			Client:       "某水务集团",
			Industry:     "水务",
			Budget:       "400-600万",
			Deadline:     seedDate("2026-05-01"),
			Status:       domain.StatusSubmitted,
			Source:       domain.SourceManual,
			Requirements: "供水管网SCADA系统建设，含远程监控、压力调度、漏损检测等。",
			CreatedAt:    seedDate("2026-01-20"),
			UpdatedAt:    seedDate("2026-02-11"),
		},
	}
}
