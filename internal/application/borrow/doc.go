// Package borrow 借阅引擎:借出、归还、借阅记录查询
//
// 借出和归还各自在一个事务中完成,行锁顺序固定,不能颠倒:
//
//	借出:        锁books行 → 读borrowers(不加锁) → 读未归还记录 → 扣减quantity → 插入borrows
//	归还:        锁borrows行 → 锁books行 → 设置return_date → 增加quantity
//	删除借阅者:  锁borrowers行 → 锁users行 → 锁任意一条未归还的borrows行
//
// 同一本书的并发借出在books行锁上串行,后到的事务在先到的提交后重新读取quantity。
// 借阅引擎不读写缓存,缓存故障不影响借出和归还。
package borrow
