// 批量导入课程目录脚本
//
// 整个文件在一个事务内写入；出现先修环或格式错误时全部回滚。
//
// 用法: go run scripts/import_catalog.go -file catalog.yaml

package main

import (
	"campus_backend/internal/config"
	"campus_backend/internal/repository"
	"campus_backend/internal/service"
	"campus_backend/pkg/database"
	"campus_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Courses []service.CourseRequest `yaml:"courses"`
}

func main() {
	file := flag.String("file", "catalog.yaml", "课程目录 YAML 文件")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取目录文件: %v", err)
	}

	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Fatalf("解析目录文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("Redis 不可用，跳过缓存失效: %v", err)
		rdb = nil
	}

	catalog := service.NewCatalogService(repository.NewCourseRepository(db), rdb, cfg)
	if err := catalog.Import(context.Background(), doc.Courses); err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("已导入 %d 门课程", len(doc.Courses))
}
